package convert

import (
	"regexp"

	"github.com/smartddock/ddock/syntax"
)

// propPattern rewrites a markup attribute whose value became a wrapped call.
// Both quote styles are accepted; the binding is always written with double
// quotes since the call itself uses single ones.
type propPattern struct {
	re      *regexp.Regexp
	rewrite func(name, call string) string
}

func propPatterns(f syntax.Family, call string) []propPattern {
	fn := regexp.QuoteMeta(call)
	switch f {
	case syntax.Brace:
		return []propPattern{{
			re:      regexp.MustCompile(`(\w+(?:-\w+)*)=["']\{\{(` + fn + `\(.*?\))\}\}["']`),
			rewrite: func(name, call string) string { return ":" + name + `="` + call + `"` },
		}}
	case syntax.Expression:
		toExpr := func(name, call string) string { return name + "={" + call + "}" }
		return []propPattern{
			{re: regexp.MustCompile(`(\w+(?:-\w+)*)=["']\{(` + fn + `\([^}]*\))\}["']`), rewrite: toExpr},
			{re: regexp.MustCompile("(\\w+(?:-\\w+)*)=\\{`\\{(" + fn + "\\([^`]*\\))\\}`\\}"), rewrite: toExpr},
		}
	}
	return nil
}

// Fixup adjusts m to its surroundings in doc. Attribute values that became a
// wrapped call are turned into bindings, then a wrapped call sitting directly
// inside quotes loses both the quotes and its wrapper. Plain documents are
// left untouched, as is any edit whose context is ambiguous.
func (p *Planner) Fixup(doc string, m Modification) Modification {
	if p.family == syntax.Plain {
		return m
	}
	m = p.bindProp(doc, m)
	return unstringify(p.family, doc, m)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// bindProp widens m to cover the attribute token around it when the
// attribute value is exactly the wrapped call.
func (p *Planner) bindProp(doc string, m Modification) Modification {
	call, ok := p.family.Unwrap(m.Replacement)
	if !ok {
		return m
	}

	cs := m.Start
	for cs > 0 && !isSpace(doc[cs-1]) {
		cs--
	}
	ce := m.End
	for ce < len(doc) && !isSpace(doc[ce]) && doc[ce] != '>' {
		ce++
	}
	pre, post := doc[cs:m.Start], doc[m.End:ce]
	combined := pre + m.Replacement + post
	replEnd := len(pre) + len(m.Replacement)

	for _, pp := range p.props {
		loc := pp.re.FindStringSubmatchIndex(combined)
		if loc == nil {
			continue
		}
		// The match must cover the whole replacement and carry exactly our call.
		if loc[0] > len(pre) || loc[1] < replEnd || combined[loc[4]:loc[5]] != call {
			continue
		}
		return Modification{
			Start:       cs + loc[0],
			End:         m.End + (loc[1] - replEnd),
			Replacement: pp.rewrite(combined[loc[2]:loc[3]], call),
		}
	}
	return m
}

// unstringify handles "{{call}}", '{call}' and the like: the quotes would
// turn the call into literal text, so they are consumed with the wrapper.
func unstringify(f syntax.Family, doc string, m Modification) Modification {
	call, ok := f.Unwrap(m.Replacement)
	if !ok || m.Start < 1 || m.End >= len(doc) {
		return m
	}
	q := doc[m.Start-1]
	if (q != '"' && q != '\'' && q != '`') || doc[m.End] != q {
		return m
	}
	return Modification{Start: m.Start - 1, End: m.End + 1, Replacement: call}
}
