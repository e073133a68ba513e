// Package syntax classifies source documents into interpolation families.
//
// A family decides how embedded expressions are written inside text and how a
// translation call must be wrapped when it replaces a span of markup text.
package syntax

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Family identifies the interpolation syntax of a document.
type Family int

const (
	// Plain documents only know the universal ${expr} interpolation.
	Plain Family = iota
	// Brace documents (Vue templates) interpolate with {{ expr }}.
	Brace
	// Expression documents (JSX/TSX) interpolate with { expr }.
	Expression
)

// String returns the family name used in configuration and logs.
func (f Family) String() string {
	switch f {
	case Brace:
		return "brace-interpolated"
	case Expression:
		return "expression-interpolated"
	default:
		return "plain"
	}
}

// Short returns the document type label shown to users.
func (f Family) Short() string {
	switch f {
	case Brace:
		return "vue"
	case Expression:
		return "tsx"
	default:
		return "ts"
	}
}

// Extensions maps file extensions to their interpolation family.
var Extensions = map[string]Family{
	".vue": Brace,
	".tsx": Expression,
	".jsx": Expression,
	".ts":  Plain,
	".js":  Plain,
	".mjs": Plain,
	".cjs": Plain,
	".mts": Plain,
	".cts": Plain,
}

// ForFile returns the family for a file path based on its extension.
// The second result is false for unsupported files.
func ForFile(path string) (Family, bool) {
	f, ok := Extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Parse converts a family name or document type label into a Family.
func Parse(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "ts", "js", "":
		return Plain, nil
	case "brace", "brace-interpolated", "vue":
		return Brace, nil
	case "expression", "expression-interpolated", "tsx", "jsx":
		return Expression, nil
	}
	return Plain, fmt.Errorf("unknown syntax family %q", s)
}

// Wrap returns call wrapped for insertion into unquoted markup text.
func (f Family) Wrap(call string) string {
	switch f {
	case Brace:
		return "{{" + call + "}}"
	case Expression:
		return "{" + call + "}"
	default:
		return call
	}
}

// Unwrap strips the family wrapper from s. The second result reports whether
// s carried the wrapper. Plain never wraps.
func (f Family) Unwrap(s string) (string, bool) {
	switch f {
	case Brace:
		if len(s) >= 4 && strings.HasPrefix(s, "{{") && strings.HasSuffix(s, "}}") {
			return s[2 : len(s)-2], true
		}
	case Expression:
		if len(s) >= 2 && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}

// SupportedExtensions returns a sorted list of known file extensions.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(Extensions))
	for ext := range Extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
