package translate

import (
	"regexp"
	"strconv"
)

// placeholderTag is the XML element that stands in for an interpolation
// while a text is at the service.
const placeholderTag = "x"

var (
	interpolationRe = regexp.MustCompile(`\$\{[^}]*\}|\{\{[^}]*\}\}|\{[^}]*\}`)
	tagRe           = regexp.MustCompile(`<x\s+id\s*=\s*"(\d+)"\s*/>`)
)

// Protect replaces every interpolation in s (${expr}, {{ expr }}, {expr}
// and {N}) with <x id="N"/> and returns the replaced tokens in order.
func Protect(s string) (string, []string) {
	var tokens []string
	out := interpolationRe.ReplaceAllStringFunc(s, func(m string) string {
		tokens = append(tokens, m)
		return `<x id="` + strconv.Itoa(len(tokens)-1) + `"/>`
	})
	return out, tokens
}

// Restore puts tokens back in place of their tags. Tags whose id is out of
// range are left untouched.
func Restore(s string, tokens []string) string {
	if len(tokens) == 0 {
		return s
	}
	return tagRe.ReplaceAllStringFunc(s, func(m string) string {
		id, err := strconv.Atoi(tagRe.FindStringSubmatch(m)[1])
		if err != nil || id >= len(tokens) {
			return m
		}
		return tokens[id]
	})
}
