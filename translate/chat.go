package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/smartddock/ddock/langmeta"
)

// DefaultSystemPrompt is the chat system prompt. {{sourceLang}} and
// {{targetLang}} are replaced with English language names.
const DefaultSystemPrompt = `You are a professional translator specializing in software and product localization. You are translating UI strings of a web application from {{sourceLang}} into {{targetLang}}.

IMPORTANT TRANSLATION PRINCIPLES:
- Translate for NATURALNESS and FLUENCY in {{targetLang}}, not word-for-word
- Keep labels short; buttons and menu items must stay concise
- Keep brand names and proper nouns unchanged

TECHNICAL REQUIREMENTS:
- Return ONLY a JSON array of translated strings, one for each input entry, in the same order.
- Every <x id="N"/> tag stands for a runtime value. Keep each tag exactly once, unchanged; you may move it where {{targetLang}} grammar needs it.
- Preserve leading/trailing whitespace, escape sequences such as \n, and punctuation patterns.
- Return ONLY the JSON array, no explanations or markdown code blocks.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (t *Translator) systemPrompt(targetLang string) string {
	prompt := t.opts.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}
	source := "the source language"
	if t.opts.SourceLanguage != "" {
		source = langmeta.EnglishName(t.opts.SourceLanguage)
	}
	prompt = strings.ReplaceAll(prompt, "{{sourceLang}}", source)
	return strings.ReplaceAll(prompt, "{{targetLang}}", langmeta.EnglishName(targetLang))
}

func userPrompt(texts []string) string {
	var b strings.Builder
	b.WriteString("Translate these entries:\n\n")
	for i, s := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escapeForPrompt(s))
	}
	fmt.Fprintf(&b, "\nReturn a JSON array with exactly %d translated strings.", len(texts))
	return b.String()
}

func chatEndpoint(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}

// chat calls an OpenAI-compatible chat completions endpoint.
func (t *Translator) chat(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	p := t.opts.Provider
	body := chatRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: t.systemPrompt(targetLang)},
			{Role: "user", Content: userPrompt(texts)},
		},
		Temperature: 0.3,
	}

	var resp chatResponse
	req := t.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp)
	if p.APIKey != "" {
		req.SetAuthToken(p.APIKey)
	}
	r, err := req.Post(chatEndpoint(p.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.Name, err)
	}
	if r.IsError() {
		return nil, fmt.Errorf("%s returned status %d: %s", p.Name, r.StatusCode(), truncate(r.String(), 500))
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s API error: %s", p.Name, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", p.Name)
	}
	return parseTranslations(resp.Choices[0].Message.Content, len(texts))
}

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseTranslations extracts a JSON array of strings from the model reply.
func parseTranslations(content string, expected int) ([]string, error) {
	content = strings.TrimSpace(content)

	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	content = fixInvalidEscapes(content)

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation response as JSON array: %w\nResponse: %s", err, truncate(content, 300))
	}
	if len(translations) != expected {
		return nil, fmt.Errorf("got %d translations, expected %d", len(translations), expected)
	}
	return translations, nil
}

// fixInvalidEscapes doubles backslashes inside JSON strings that do not
// start a valid JSON escape. Models sometimes echo source escapes such as
// \' or \$ verbatim.
func fixInvalidEscapes(jsonContent string) string {
	var fixed strings.Builder
	inQuote := false
	escaped := false

	for i := 0; i < len(jsonContent); i++ {
		c := jsonContent[i]

		if c == '"' && !escaped {
			inQuote = !inQuote
			fixed.WriteByte(c)
			continue
		}

		if inQuote && c == '\\' && !escaped {
			if i+1 < len(jsonContent) && strings.IndexByte(`"\/bfnrtu`, jsonContent[i+1]) >= 0 {
				fixed.WriteByte(c)
				escaped = true
				continue
			}
			fixed.WriteString(`\\`)
			continue
		}

		fixed.WriteByte(c)
		escaped = false
	}

	return fixed.String()
}

// escapeForPrompt prepares a string for inclusion in the prompt.
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return fmt.Sprintf(`"%s"`, s)
}
