package translate

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/smartddock/ddock/langmeta"
)

type deeplRequest struct {
	Text        []string `json:"text"`
	TargetLang  string   `json:"target_lang"`
	SourceLang  string   `json:"source_lang,omitempty"`
	TagHandling string   `json:"tag_handling"`
	IgnoreTags  []string `json:"ignore_tags"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

type deeplError struct {
	Message string `json:"message"`
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// deepl calls POST /v2/translate with XML tag handling so placeholder tags
// pass through untranslated.
func (t *Translator) deepl(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	p := t.opts.Provider
	body := deeplRequest{
		Text:        make([]string, len(texts)),
		TargetLang:  deeplTarget(targetLang),
		SourceLang:  deeplSource(t.opts.SourceLanguage),
		TagHandling: "xml",
		IgnoreTags:  []string{placeholderTag},
	}
	for i, s := range texts {
		body.Text[i] = escapeOutsideTags(s)
	}

	var resp deeplResponse
	var apiErr deeplError
	r, err := t.http.R().SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+p.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		SetError(&apiErr).
		Post(strings.TrimRight(p.BaseURL, "/") + "/v2/translate")
	if err != nil {
		return nil, fmt.Errorf("DeepL request failed: %w", err)
	}
	if r.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = truncate(r.String(), 500)
		}
		return nil, fmt.Errorf("DeepL returned status %d: %s", r.StatusCode(), msg)
	}

	out := make([]string, len(resp.Translations))
	for i, tr := range resp.Translations {
		out[i] = html.UnescapeString(tr.Text)
	}
	return out, nil
}

// escapeOutsideTags XML-escapes s except for placeholder tags.
func escapeOutsideTags(s string) string {
	locs := tagRe.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return xmlEscaper.Replace(s)
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(xmlEscaper.Replace(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(xmlEscaper.Replace(s[last:]))
	return b.String()
}

// deeplTarget maps a language code to a DeepL target language. DeepL needs
// a regional variant for English and Portuguese and a script for Chinese.
func deeplTarget(lang string) string {
	c := langmeta.Canonicalize(lang)
	switch strings.ToLower(c) {
	case "en":
		return "EN-US"
	case "pt":
		return "PT-BR"
	case "zh", "zh-cn", "zh-hans":
		return "ZH-HANS"
	case "zh-tw", "zh-hk", "zh-hant":
		return "ZH-HANT"
	}
	return strings.ToUpper(c)
}

// deeplSource maps a language code to a DeepL source language, which never
// carries a region.
func deeplSource(lang string) string {
	c := langmeta.Canonicalize(lang)
	if i := strings.IndexByte(c, '-'); i >= 0 {
		c = c[:i]
	}
	return strings.ToUpper(c)
}
