// Package keygen derives translation keys from source text.
//
// A key is produced by one of a closed set of named transforms, optionally
// followed by declarative find/replace rules, then normalized and qualified
// with the active namespace. Generation never fails: a broken transform or
// rule falls back to the default transform after warning the operator.
package keygen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartddock/ddock/variables"
)

// DefaultTransform is the name of the built-in transform used on fallback.
const DefaultTransform = "default"

// Transform converts cleaned text into a raw key.
type Transform func(string) string

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	escapeRe     = regexp.MustCompile(`\\(.)`)
	backslashRe  = regexp.MustCompile(`\\{2,}`)
)

// escapeSegments replaces characters that would break dot-path lookups or the
// quoted call form with named tokens. Backslash escapes are doubled here and
// collapsed again during normalization.
func escapeSegments(s string) string {
	s = strings.ReplaceAll(s, ".", "#dot#")
	s = escapeRe.ReplaceAllString(s, `\\$1`)
	s = strings.ReplaceAll(s, "[", "#lb#")
	s = strings.ReplaceAll(s, "]", "#rb#")
	s = strings.ReplaceAll(s, "'", "#sq#")
	s = strings.ReplaceAll(s, `"`, "#dq#")
	return s
}

// builtins is the closed set of transforms selectable by name.
var builtins = map[string]Transform{
	DefaultTransform: func(s string) string {
		return escapeSegments(whitespaceRe.ReplaceAllString(s, "_"))
	},
	"dash": func(s string) string {
		return escapeSegments(whitespaceRe.ReplaceAllString(s, "-"))
	},
	"compact": func(s string) string {
		return escapeSegments(whitespaceRe.ReplaceAllString(s, ""))
	},
}

// Transforms returns the names of the built-in transforms.
func Transforms() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rule is a declarative find/replace step applied after the transform.
// Find is a regular expression; Replace may reference groups as $1.
type Rule struct {
	Find    string `yaml:"find"`
	Replace string `yaml:"replace"`
}

type compiledRule struct {
	re      *regexp.Regexp
	replace string
}

// Options configures a Generator.
type Options struct {
	// Transform names a built-in transform. Empty selects the default.
	Transform string
	// Rules run in order after the transform.
	Rules []Rule
	// OnWarning receives operator-facing notices when generation falls back
	// to the default transform.
	OnWarning func(msg string)
}

// Generator produces deterministic keys.
type Generator struct {
	name      string
	transform Transform
	rules     []compiledRule
	fallback  bool
	onWarning func(string)
}

// New builds a Generator. Unknown transforms and invalid rules are reported
// through OnWarning and replaced by the default transform.
func New(opts Options) *Generator {
	g := &Generator{onWarning: opts.OnWarning}

	name := strings.TrimSpace(opts.Transform)
	if name == "" {
		name = DefaultTransform
	}
	fn, ok := builtins[name]
	if !ok {
		g.warn(fmt.Sprintf("unknown key transform %q, using %q", name, DefaultTransform))
		g.name = DefaultTransform
		g.transform = builtins[DefaultTransform]
		g.fallback = true
		return g
	}
	g.name = name
	g.transform = fn

	for i, r := range opts.Rules {
		re, err := regexp.Compile(r.Find)
		if err != nil {
			g.warn(fmt.Sprintf("key rule %d (%q) is invalid: %v; using %q", i+1, r.Find, err, DefaultTransform))
			g.name = DefaultTransform
			g.transform = builtins[DefaultTransform]
			g.rules = nil
			g.fallback = true
			return g
		}
		g.rules = append(g.rules, compiledRule{re: re, replace: r.Replace})
	}
	return g
}

// Default returns a Generator using the default transform and no rules.
func Default() *Generator {
	return &Generator{name: DefaultTransform, transform: builtins[DefaultTransform]}
}

// Name returns the effective transform name.
func (g *Generator) Name() string { return g.name }

// FellBack reports whether construction fell back to the default transform.
func (g *Generator) FellBack() bool { return g.fallback }

// Key returns the key for text (or a template) under namespace.
// Outer quotes are stripped first.
func (g *Generator) Key(text, namespace string) string {
	cleaned := StripQuotes(text)
	raw := g.apply(cleaned)
	if raw == "" && cleaned != "" {
		g.warn(fmt.Sprintf("key transform %q produced an empty key for %q, using %q", g.name, cleaned, DefaultTransform))
		raw = builtins[DefaultTransform](cleaned)
	}
	return Qualify(namespace, Normalize(raw))
}

// KeyFor returns the key for extracted text: the template when the text has
// interpolations, the original text otherwise.
func (g *Generator) KeyFor(info variables.Info, namespace string) string {
	if info.HasVariables() {
		return g.Key(info.Template, namespace)
	}
	return g.Key(info.OriginalText, namespace)
}

func (g *Generator) apply(s string) string {
	out := g.transform(s)
	for _, r := range g.rules {
		out = r.re.ReplaceAllString(out, r.replace)
	}
	return out
}

func (g *Generator) warn(msg string) {
	log.Warn().Str("component", "keygen").Msg(msg)
	if g.onWarning != nil {
		g.onWarning(msg)
	}
}

// Normalize collapses every run of two or more backslashes into one.
func Normalize(key string) string {
	return backslashRe.ReplaceAllString(key, `\`)
}

// Qualify prefixes key with namespace and a dot when namespace is set.
func Qualify(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + "." + key
}

// IsQuoted reports whether s is wrapped in a matching pair of single, double
// or backtick quotes.
func IsQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '\'' || q == '"' || q == '`') && s[len(s)-1] == q
}

// StripQuotes removes one pair of matching outer quotes.
func StripQuotes(s string) string {
	if IsQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}
