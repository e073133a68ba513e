// Package extract discovers source files and locates translatable text in
// them.
//
// The package walks project trees for files whose extension maps to a known
// interpolation family and runs an Extractor over each document. The bundled
// Hangul extractor is a bounded scanner, not a parser: it finds string
// literals, markup text nodes and attribute values containing Korean text,
// plus existing translation calls.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smartddock/ddock/syntax"
)

// Range is a half-open byte interval [Start, End) into one document snapshot
// together with the covered text. Ranges go stale after any edit.
type Range struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Len returns the number of bytes covered.
func (r Range) Len() int { return r.End - r.Start }

// Overlaps reports whether r and o share at least one byte.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && r.End > o.Start
}

// Extractor finds convertible text and existing translation calls in a
// document. Both slices are ordered by ascending Start.
type Extractor interface {
	Extract(document string, family syntax.Family) (texts, refs []Range)
}

// Document is one scanned source file.
type Document struct {
	Path   string
	Family syntax.Family
	Source string
	Texts  []Range
	Refs   []Range
}

// SkipDir reports whether a directory is never scanned for sources.
func SkipDir(name string) bool { return skipDirs[name] }

// skipDirs contains directory names to skip during source file scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".ddock":       true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	".nuxt":        true,
	".next":        true,
	".output":      true,
	"coverage":     true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// FindSources recursively finds all source files with known extensions in dirs.
// Skips common non-source directories (node_modules, .git, dist, etc.).
// A non-empty exts restricts the search to those extensions.
func FindSources(dirs []string, exts []string) ([]string, error) {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		allowed[strings.ToLower(e)] = true
	}

	var files []string
	seen := make(map[string]bool)

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if info.IsDir() {
				if SkipDir(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if _, ok := syntax.ForFile(path); !ok {
				return nil
			}
			if len(allowed) > 0 && !allowed[strings.ToLower(filepath.Ext(path))] {
				return nil
			}
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Scan reads path and runs ex over its contents.
func Scan(ex Extractor, path string) (*Document, error) {
	family, ok := syntax.ForFile(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	src := string(data)
	texts, refs := ex.Extract(src, family)
	return &Document{Path: path, Family: family, Source: src, Texts: texts, Refs: refs}, nil
}

// FilesByFamily groups source files by their interpolation family.
func FilesByFamily(files []string) map[syntax.Family][]string {
	result := make(map[syntax.Family][]string)
	for _, f := range files {
		if fam, ok := syntax.ForFile(f); ok {
			result[fam] = append(result[fam], f)
		}
	}
	return result
}

// DescribeFiles returns a human-readable summary of the source files found.
func DescribeFiles(files []string) string {
	byFamily := FilesByFamily(files)
	var parts []string
	for _, fam := range []syntax.Family{syntax.Brace, syntax.Expression, syntax.Plain} {
		if n := len(byFamily[fam]); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, fam.Short()))
		}
	}
	return strings.Join(parts, ", ")
}

// UniqueTexts returns the distinct texts of ranges in first-seen order.
func UniqueTexts(ranges []Range) []string {
	seen := make(map[string]bool, len(ranges))
	var out []string
	for _, r := range ranges {
		if !seen[r.Text] {
			seen[r.Text] = true
			out = append(out, r.Text)
		}
	}
	return out
}

// LineCol converts a byte offset into a 1-based line and column.
// Columns count runes.
func LineCol(doc string, offset int) (line, col int) {
	if offset > len(doc) {
		offset = len(doc)
	}
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if doc[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, len([]rune(doc[lineStart:offset])) + 1
}
