// Package session holds the operator state shared by planning and locale
// generation: the active namespace and the set of excluded text ranges.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/smartddock/ddock/extract"
)

// ExclusionID returns the identity of a text range within one extraction
// snapshot.
func ExclusionID(text string, start, end int) string {
	return fmt.Sprintf("%s:%d:%d", text, start, end)
}

// RangeID returns the exclusion identity of r.
func RangeID(r extract.Range) string {
	return ExclusionID(r.Text, r.Start, r.End)
}

// Session is safe for concurrent use. Values are read live at use time.
type Session struct {
	mu        sync.Mutex
	namespace string
	excluded  map[string]struct{}
}

// New returns an empty session.
func New() *Session {
	return &Session{excluded: make(map[string]struct{})}
}

// SetNamespace sets the namespace used by the next operations.
// Surrounding whitespace is trimmed; an empty value clears it.
func (s *Session) SetNamespace(ns string) {
	s.mu.Lock()
	s.namespace = strings.TrimSpace(ns)
	s.mu.Unlock()
}

// Namespace returns the current namespace.
func (s *Session) Namespace() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.namespace
}

// Exclude marks a range identity, as returned by RangeID, as excluded.
func (s *Session) Exclude(id string) {
	s.mu.Lock()
	s.excluded[id] = struct{}{}
	s.mu.Unlock()
}

// Include removes a range identity from the exclusion set.
func (s *Session) Include(id string) {
	s.mu.Lock()
	delete(s.excluded, id)
	s.mu.Unlock()
}

// Excluded returns the excluded identities, sorted.
func (s *Session) Excluded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.excluded))
	for id := range s.excluded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearExclusions empties the exclusion set. Identities hold offsets, so they
// go stale once the document they came from changes.
func (s *Session) ClearExclusions() {
	s.mu.Lock()
	s.excluded = make(map[string]struct{})
	s.mu.Unlock()
}

// Filter returns the ranges that are not excluded, preserving order.
func (s *Session) Filter(ranges []extract.Range) []extract.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]extract.Range, 0, len(ranges))
	for _, r := range ranges {
		if _, ok := s.excluded[RangeID(r)]; !ok {
			out = append(out, r)
		}
	}
	return out
}
