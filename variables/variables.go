// Package variables finds interpolated expressions inside source text and
// replaces them with numbered placeholders.
//
// Every family understands the universal ${expr} form. Brace documents add
// {{ expr }} and expression documents add { expr } (not preceded by '$').
// Placeholders are numbered per pass: all ${} occurrences first, left to
// right, then the family's own occurrences, continuing the same counter.
package variables

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/smartddock/ddock/syntax"
)

// Info describes the interpolations found in one text.
type Info struct {
	OriginalText string
	Template     string
	Variables    []string
}

// HasVariables reports whether any interpolation was found.
func (i Info) HasVariables() bool { return len(i.Variables) > 0 }

// token is one interpolation occurrence in the scanned text.
type token struct {
	start, end int
	expr       string
	universal  bool
}

// Extract scans text once and returns its template and variables.
func Extract(f syntax.Family, text string) Info {
	toks := scan(f, text)
	order := numbering(toks)
	vars := make([]string, len(toks))
	for i, t := range toks {
		vars[order[i]] = t.expr
	}
	return Info{
		OriginalText: text,
		Template:     render(text, toks, order),
		Variables:    vars,
	}
}

// Rewrite replaces the interpolations of text with placeholders. When vars is
// given (the variables of the source text), an occurrence whose expression
// matches an unused source variable takes that variable's number, so a
// translation that reorders interpolations keeps pointing at the right value.
// Remaining occurrences fall back to the scan numbering.
func Rewrite(f syntax.Family, text string, vars []string) string {
	toks := scan(f, text)
	if len(toks) == 0 {
		return text
	}
	order := numbering(toks)
	if len(vars) == 0 {
		return render(text, toks, order)
	}

	used := make([]bool, len(vars))
	assigned := make([]int, len(toks))
	for i := range assigned {
		assigned[i] = -1
	}
	// Visit in numbering order so duplicates resolve left to right per pass.
	byNumber := make([]int, len(toks))
	for i, n := range order {
		byNumber[n] = i
	}
	for _, i := range byNumber {
		for j, v := range vars {
			if !used[j] && v == toks[i].expr {
				used[j] = true
				assigned[i] = j
				break
			}
		}
	}
	taken := make(map[int]bool, len(toks))
	for _, n := range assigned {
		if n >= 0 {
			taken[n] = true
		}
	}
	for _, i := range byNumber {
		if assigned[i] >= 0 {
			continue
		}
		n := order[i]
		for taken[n] {
			n++
		}
		taken[n] = true
		assigned[i] = n
	}
	return render(text, toks, assigned)
}

var placeholderRe = regexp.MustCompile(`\{\d+\}`)

// CountPlaceholders returns the number of {N} placeholders in a template.
func CountPlaceholders(template string) int {
	return len(placeholderRe.FindAllStringIndex(template, -1))
}

// scan walks text left to right and returns every non-overlapping
// interpolation. Each match runs to the first closing brace; nesting is not
// supported.
func scan(f syntax.Family, text string) []token {
	var toks []token
	for i := 0; i < len(text); {
		if strings.HasPrefix(text[i:], "${") {
			if j := strings.IndexByte(text[i+2:], '}'); j > 0 {
				inner := text[i+2 : i+2+j]
				end := i + 2 + j + 1
				if !isDigits(inner) {
					toks = append(toks, token{start: i, end: end, expr: strings.TrimSpace(inner), universal: true})
				}
				i = end
				continue
			}
		}
		switch f {
		case syntax.Brace:
			if strings.HasPrefix(text[i:], "{{") {
				j := strings.IndexByte(text[i+2:], '}')
				if j > 0 && strings.HasPrefix(text[i+2+j:], "}}") {
					inner := text[i+2 : i+2+j]
					end := i + 2 + j + 2
					if !isDigits(inner) {
						toks = append(toks, token{start: i, end: end, expr: strings.TrimSpace(inner)})
					}
					i = end
					continue
				}
			}
		case syntax.Expression:
			if text[i] == '{' && (i == 0 || text[i-1] != '$') {
				if j := strings.IndexByte(text[i+1:], '}'); j > 0 {
					inner := text[i+1 : i+1+j]
					end := i + 1 + j + 1
					if !isDigits(inner) {
						toks = append(toks, token{start: i, end: end, expr: strings.TrimSpace(inner)})
					}
					i = end
					continue
				}
			}
		}
		i++
	}
	return toks
}

// numbering assigns placeholder numbers: universal tokens first, then the
// family tokens, each group in document order.
func numbering(toks []token) []int {
	order := make([]int, len(toks))
	n := 0
	for i, t := range toks {
		if t.universal {
			order[i] = n
			n++
		}
	}
	for i, t := range toks {
		if !t.universal {
			order[i] = n
			n++
		}
	}
	return order
}

func render(text string, toks []token, numbers []int) string {
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i, t := range toks {
		b.WriteString(text[last:t.start])
		b.WriteByte('{')
		b.WriteString(strconv.Itoa(numbers[i]))
		b.WriteByte('}')
		last = t.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// isDigits reports whether s is an existing {N} placeholder body.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
