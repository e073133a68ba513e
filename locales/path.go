package locales

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultPattern is the store file name pattern used when none is configured.
const DefaultPattern = "locales.{language}.json"

var (
	dotsRe  = regexp.MustCompile(`\.{2,}`)
	slashRe = regexp.MustCompile(`/{2,}`)
	affixRe = regexp.MustCompile(`^[./]+|[./]+$`)
)

// FileName expands the {language} and {namespace} tokens of pattern and
// tidies the result: repeated dots and slashes collapse and leading or
// trailing dots and slashes are removed. An empty result falls back to
// locales.<language>.json.
func FileName(pattern, language, namespace string) string {
	if pattern == "" {
		pattern = DefaultPattern
	}
	name := strings.ReplaceAll(pattern, "{language}", language)
	name = strings.ReplaceAll(name, "{namespace}", namespace)
	name = dotsRe.ReplaceAllString(name, ".")
	name = slashRe.ReplaceAllString(name, "/")
	name = affixRe.ReplaceAllString(name, "")
	if name == "" {
		return "locales." + language + ".json"
	}
	return name
}

// ResolvePath joins dir with the expanded file name. An empty dir keeps the
// name relative to the working directory.
func ResolvePath(dir, pattern, language, namespace string) string {
	name := filepath.FromSlash(FileName(pattern, language, namespace))
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
