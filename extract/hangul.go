package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smartddock/ddock/syntax"
)

// Hangul extracts text containing Korean syllables.
//
// String literals are reported with their quotes. Markup attribute values are
// reported without quotes so the planner wraps them and the fixup pass can
// turn them into bindings. Markup text nodes are reported trimmed. Literals
// passed directly to the translation function are reported as refs.
type Hangul struct {
	// Call is the translation function name. Defaults to "t".
	Call string
}

// ContainsHangul reports whether s holds at least one Hangul syllable.
func ContainsHangul(s string) bool {
	for _, r := range s {
		if r >= '가' && r <= '힣' {
			return true
		}
	}
	return false
}

// Extract implements Extractor.
func (h Hangul) Extract(doc string, family syntax.Family) (texts, refs []Range) {
	call := h.Call
	if call == "" {
		call = "t"
	}
	markup := family != syntax.Plain

	for i := 0; i < len(doc); {
		switch c := doc[i]; {
		case markup && strings.HasPrefix(doc[i:], "<!--"):
			i = skipPast(doc, i+4, "-->")
		case strings.HasPrefix(doc[i:], "/*"):
			i = skipPast(doc, i+2, "*/")
		case strings.HasPrefix(doc[i:], "//") && (i == 0 || doc[i-1] != ':'):
			i = skipPast(doc, i+2, "\n")
		case c == '\'' || c == '"' || c == '`':
			end, ok := closeQuote(doc, i)
			if !ok {
				i++
				continue
			}
			lit := doc[i:end]
			if ContainsHangul(lit) {
				switch {
				case isCallArgument(doc, i, call):
					refs = append(refs, Range{Start: i, End: end, Text: lit})
				case markup && i > 0 && doc[i-1] == '=' && inTag(doc, i):
					texts = append(texts, Range{Start: i + 1, End: end - 1, Text: doc[i+1 : end-1]})
				default:
					texts = append(texts, Range{Start: i, End: end, Text: lit})
				}
			}
			i = end
		case markup && c == '>' && closesTag(doc, i):
			if r, ok := textNode(doc, i+1, call); ok {
				texts = append(texts, r)
				i = r.End
				continue
			}
			i++
		default:
			i++
		}
	}
	return texts, refs
}

// closeQuote returns the offset just past the quote matching doc[start].
// Single and double quoted strings must close on the same line.
func closeQuote(doc string, start int) (int, bool) {
	q := doc[start]
	for j := start + 1; j < len(doc); j++ {
		switch doc[j] {
		case '\\':
			j++
		case '\n':
			if q != '`' {
				return 0, false
			}
		case q:
			return j + 1, true
		}
	}
	return 0, false
}

// isCallArgument reports whether the literal at start is the first argument
// of the translation function, e.g. t('...') or $t("...").
func isCallArgument(doc string, start int, call string) bool {
	before := strings.TrimRightFunc(doc[:start], unicode.IsSpace)
	if !strings.HasSuffix(before, "(") {
		return false
	}
	before = strings.TrimRightFunc(before[:len(before)-1], unicode.IsSpace)
	if !strings.HasSuffix(before, call) {
		return false
	}
	rest := before[:len(before)-len(call)]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(rest)
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

// inTag reports whether offset sits inside an opening or closing tag.
func inTag(doc string, offset int) bool {
	for j := offset - 1; j >= 0; j-- {
		switch doc[j] {
		case '>':
			return false
		case '<':
			return j+1 < len(doc) && (isASCIILetter(doc[j+1]) || doc[j+1] == '/')
		}
	}
	return false
}

// closesTag reports whether the '>' at offset ends a markup tag. Arrows are
// rejected, and so are type argument lists such as Promise<void>: a '<'
// right after an identifier whose '>' is followed by code.
func closesTag(doc string, offset int) bool {
	if offset > 0 && (doc[offset-1] == '=' || doc[offset-1] == '-') {
		return false
	}
	j := strings.LastIndexByte(doc[:offset], '<')
	if j < 0 {
		return false
	}
	if j > 0 && isIdentByte(doc[j-1]) && startsCode(doc[offset+1:]) {
		return false
	}
	return j+1 == offset || doc[j+1] == '/' || isASCIILetter(doc[j+1])
}

// startsCode reports whether s begins with punctuation that continues an
// expression or declaration rather than markup text.
func startsCode(s string) bool {
	s = strings.TrimLeft(s, " \t")
	return s == "" || strings.IndexByte("({[),;.:|&=>?", s[0]) >= 0
}

// textNode reports the trimmed markup text between a '>' and the next '<'.
// Runs that look like code, contain quotes or comments, or already hold a
// translation call are skipped.
func textNode(doc string, start int, call string) (Range, bool) {
	end := strings.IndexByte(doc[start:], '<')
	if end < 0 {
		return Range{}, false
	}
	end += start
	run := doc[start:end]
	if !ContainsHangul(run) || strings.ContainsAny(run, "'\"`;=") || strings.Contains(run, call+"(") {
		return Range{}, false
	}
	if strings.Contains(run, "//") || strings.Contains(run, "/*") || opensBlock(run) {
		return Range{}, false
	}
	lead := len(run) - len(strings.TrimLeftFunc(run, unicode.IsSpace))
	trail := len(run) - len(strings.TrimRightFunc(run, unicode.IsSpace))
	s, e := start+lead, end-trail
	return Range{Start: s, End: e, Text: doc[s:e]}, true
}

func skipPast(doc string, from int, marker string) int {
	if from > len(doc) {
		return len(doc)
	}
	if k := strings.Index(doc[from:], marker); k >= 0 {
		return from + k + len(marker)
	}
	return len(doc)
}

// opensBlock reports whether a '{' in run ends its line, as a function or
// statement block does. Interpolations like {count} stay on one line.
func opensBlock(run string) bool {
	for i := strings.IndexByte(run, '{'); i >= 0; {
		rest := strings.TrimLeft(run[i+1:], " \t\r")
		if strings.HasPrefix(rest, "\n") {
			return true
		}
		k := strings.IndexByte(run[i+1:], '{')
		if k < 0 {
			break
		}
		i += k + 1
	}
	return false
}

func isIdentByte(b byte) bool {
	return isASCIILetter(b) || (b >= '0' && b <= '9') || b == '_' || b == '$' || b == '.'
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
