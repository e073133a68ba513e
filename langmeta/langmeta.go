// Package langmeta provides language metadata (canonical tags, native and
// English names, emoji flags) used by the translators, the spreadsheet
// exchange and the CLI UI.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	Tag     string
	Name    string
	English string
	Flag    string
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Canonicalize returns the BCP 47 form of lang, accepting variants such as
// pt_br. Codes the language package rejects are only case-normalized.
func Canonicalize(lang string) string {
	c := canonicalize(lang)
	if c == "" {
		return ""
	}
	tag, err := language.Parse(c)
	if err != nil {
		return c
	}
	return tag.String()
}

// Resolve returns best-effort metadata for lang. Unknown codes pass through
// as their own name without a flag.
func Resolve(lang string) Meta {
	c := canonicalize(lang)
	tag, err := language.Parse(c)
	if err != nil || c == "" {
		return Meta{Tag: lang, Name: lang, English: lang}
	}
	m := Meta{Tag: tag.String()}
	if name := display.Self.Name(tag); name != "" {
		m.Name = name
	} else {
		m.Name = lang
	}
	if name := display.English.Tags().Name(tag); name != "" {
		m.English = name
	} else {
		m.English = m.Name
	}
	if region, conf := tag.Region(); conf != language.No {
		m.Flag = Flag(region.String())
	}
	return m
}

// EnglishName returns the English display name of lang.
func EnglishName(lang string) string {
	return Resolve(lang).English
}

// Flag converts a two-letter region code into its regional indicator pair.
func Flag(region string) string {
	if len(region) != 2 {
		return ""
	}
	region = strings.ToUpper(region)
	var b strings.Builder
	for i := 0; i < 2; i++ {
		c := region[i]
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(rune(0x1F1E6 + int(c-'A')))
	}
	return b.String()
}

// Label formats lang for CLI lists, e.g. "🇰🇷 한국어 (ko)".
func Label(lang string) string {
	m := Resolve(lang)
	if m.Name == lang {
		return lang
	}
	if m.Flag == "" {
		return m.Name + " (" + lang + ")"
	}
	return m.Flag + " " + m.Name + " (" + lang + ")"
}
