// Package convert plans and applies the edits that replace source text with
// translation calls.
//
// Planning never mutates the document. A commit computes the whole edit batch
// against one snapshot, runs the context fixups for each edit, and applies
// the batch in descending start order so earlier offsets stay valid.
package convert

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartddock/ddock/extract"
	"github.com/smartddock/ddock/keygen"
	"github.com/smartddock/ddock/session"
	"github.com/smartddock/ddock/syntax"
	"github.com/smartddock/ddock/variables"
)

var (
	// ErrOverlap is returned when two modifications of one batch intersect.
	ErrOverlap = errors.New("overlapping modifications")
	// ErrOutOfRange is returned when a modification lies outside the document.
	ErrOutOfRange = errors.New("modification out of range")
)

// Modification replaces the bytes [Start, End) with Replacement.
type Modification struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
}

// Overlay is a planned conversion shown without editing the document.
type Overlay struct {
	Range       extract.Range `json:"range"`
	Key         string        `json:"key"`
	Variables   []string      `json:"variables,omitempty"`
	Replacement string        `json:"replacement"`
}

// Planner turns text ranges into translation-call edits.
type Planner struct {
	family  syntax.Family
	keys    *keygen.Generator
	session *session.Session
	call    string
	props   []propPattern
}

// NewPlanner returns a Planner for one document family. The namespace is
// read from sess at each planning call; sess may be nil. call names the
// translation function and defaults to "t".
func NewPlanner(f syntax.Family, keys *keygen.Generator, sess *session.Session, call string) *Planner {
	if keys == nil {
		keys = keygen.Default()
	}
	if call == "" {
		call = "t"
	}
	return &Planner{
		family:  f,
		keys:    keys,
		session: sess,
		call:    call,
		props:   propPatterns(f, call),
	}
}

// Family returns the document family the planner was built for.
func (p *Planner) Family() syntax.Family { return p.family }

func (p *Planner) namespace() string {
	if p.session == nil {
		return ""
	}
	return p.session.Namespace()
}

// Call builds the translation call for text and returns it with its key.
// The call is not wrapped.
func (p *Planner) Call(text, namespace string) (call, key string, vars []string) {
	info := variables.Extract(p.family, text)
	key = p.keys.KeyFor(info, namespace)
	if !info.HasVariables() {
		return fmt.Sprintf("%s('%s')", p.call, key), key, nil
	}
	return fmt.Sprintf("%s('%s', [%s])", p.call, key, strings.Join(info.Variables, ", ")), key, info.Variables
}

// Replacement returns the text that replaces r: the bare call for a quoted
// literal, otherwise the call wrapped for the document family.
func (p *Planner) Replacement(r extract.Range, namespace string) (repl, key string, vars []string) {
	call, key, vars := p.Call(r.Text, namespace)
	if keygen.IsQuoted(r.Text) {
		return call, key, vars
	}
	return p.family.Wrap(call), key, vars
}

// plan selects, for each target text in order, every candidate range with the
// same text that does not intersect an already accepted range.
func (p *Planner) plan(texts []string, ranges []extract.Range) []Overlay {
	ns := p.namespace()
	var claimed []extract.Range
	var out []Overlay
	for _, text := range texts {
		for _, r := range ranges {
			if r.Text != text || r.Start >= r.End {
				continue
			}
			if intersectsAny(r, claimed) {
				continue
			}
			claimed = append(claimed, r)
			repl, key, vars := p.Replacement(r, ns)
			out = append(out, Overlay{Range: r, Key: key, Variables: vars, Replacement: repl})
		}
	}
	return out
}

func intersectsAny(r extract.Range, claimed []extract.Range) bool {
	for _, c := range claimed {
		if r.Overlaps(c) {
			return true
		}
	}
	return false
}

// Plan returns the edit batch for texts in acceptance order. The batch is
// pairwise non-overlapping.
func (p *Planner) Plan(texts []string, ranges []extract.Range) []Modification {
	planned := p.plan(texts, ranges)
	mods := make([]Modification, len(planned))
	for i, o := range planned {
		mods[i] = Modification{Start: o.Range.Start, End: o.Range.End, Replacement: o.Replacement}
	}
	return mods
}

// Preview returns the planned conversions without touching the document.
func (p *Planner) Preview(texts []string, ranges []extract.Range) []Overlay {
	return p.plan(texts, ranges)
}

// Commit plans the batch against doc, applies the context fixups and returns
// the converted document together with the applied modifications in
// descending start order.
func (p *Planner) Commit(doc string, texts []string, ranges []extract.Range) (string, []Modification, error) {
	mods := p.Plan(texts, ranges)
	if len(mods) == 0 {
		return doc, nil, nil
	}
	fixed := make([]Modification, len(mods))
	for i, m := range mods {
		fixed[i] = p.Fixup(doc, m)
	}
	fixed = revertConflicts(mods, fixed)

	out, err := Apply(doc, fixed)
	if err != nil {
		return doc, nil, err
	}
	sortDescending(fixed)
	log.Debug().Int("edits", len(fixed)).Str("family", p.family.String()).Msg("conversion committed")
	return out, fixed, nil
}

// revertConflicts restores the unwidened form of any fixed modification that
// overlaps another one. The original batch never overlaps, so this settles.
func revertConflicts(orig, fixed []Modification) []Modification {
	for changed := true; changed; {
		changed = false
		for i := range fixed {
			for j := i + 1; j < len(fixed); j++ {
				if !overlaps(fixed[i], fixed[j]) {
					continue
				}
				if fixed[i] != orig[i] {
					fixed[i] = orig[i]
					changed = true
				}
				if fixed[j] != orig[j] {
					fixed[j] = orig[j]
					changed = true
				}
			}
		}
	}
	return fixed
}

func overlaps(a, b Modification) bool {
	return a.Start < b.End && a.End > b.Start
}

func sortDescending(mods []Modification) {
	sort.SliceStable(mods, func(i, j int) bool { return mods[i].Start > mods[j].Start })
}

// Apply performs every modification on doc in one pass. Modifications are
// applied in descending start order; the batch must be in range and pairwise
// non-overlapping.
func Apply(doc string, mods []Modification) (string, error) {
	sorted := make([]Modification, len(mods))
	copy(sorted, mods)
	sortDescending(sorted)

	for i, m := range sorted {
		if m.Start < 0 || m.End < m.Start || m.End > len(doc) {
			return doc, fmt.Errorf("%w: [%d, %d) in document of %d bytes", ErrOutOfRange, m.Start, m.End, len(doc))
		}
		if i > 0 && overlaps(m, sorted[i-1]) {
			return doc, fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrOverlap, m.Start, m.End, sorted[i-1].Start, sorted[i-1].End)
		}
	}

	out := doc
	for _, m := range sorted {
		out = out[:m.Start] + m.Replacement + out[m.End:]
	}
	return out, nil
}
