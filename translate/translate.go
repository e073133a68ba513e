// Package translate sends source strings to machine translation services:
// DeepL and OpenAI-compatible chat APIs (OpenAI, Groq, Ollama).
package translate

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// ---------------------------------------------------------------------------
// Service IDs
// ---------------------------------------------------------------------------

const (
	ServiceDeepL  = "deepl"
	ServiceOpenAI = "openai"
	ServiceGroq   = "groq"
	ServiceOllama = "ollama"
)

const deeplFreeURL = "https://api-free.deepl.com"

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for a translation service.
type Provider struct {
	// ID is the service identifier (deepl, openai, groq, ollama).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key (empty for local services).
	APIKey string
	// Model is the chat model; unused by DeepL.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ServiceDeepL: {
			ID:      ServiceDeepL,
			Name:    "DeepL",
			BaseURL: "https://api.deepl.com",
			Timeout: 30 * time.Second,
		},
		ServiceOpenAI: {
			ID:      ServiceOpenAI,
			Name:    "OpenAI",
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 120 * time.Second,
		},
		ServiceGroq: {
			ID:      ServiceGroq,
			Name:    "Groq",
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.3-70b-versatile",
			Timeout: 60 * time.Second,
		},
		ServiceOllama: {
			ID:      ServiceOllama,
			Name:    "Ollama",
			BaseURL: "http://localhost:11434/v1",
			Model:   "llama3.1",
			Timeout: 120 * time.Second,
		},
	}
}

// Services returns the supported service IDs, sorted.
func Services() []string {
	ids := make([]string, 0, 4)
	for id := range DefaultProviders() {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NeedsAPIKey reports whether service requires an API key.
func NeedsAPIKey(service string) bool {
	return service != ServiceOllama
}

// ---------------------------------------------------------------------------
// Translation options
// ---------------------------------------------------------------------------

// Options controls the translation behavior.
type Options struct {
	// Provider is the service configuration. Empty fields take the defaults
	// of the provider with the same ID.
	Provider Provider
	// SourceLanguage is the language of the input texts. Empty lets the
	// service detect it.
	SourceLanguage string
	// ChunkSize is how many strings to send per request (0 = 50).
	ChunkSize int
	// MaxRetries is the number of retries on 429 and 5xx responses. Default: 3.
	MaxRetries int
	// RetryWait is the initial backoff between retries. Default: 1s.
	RetryWait time.Duration
	// SystemPrompt overrides the default chat system prompt.
	SystemPrompt string
	// OnProgress is called after each chunk is translated.
	OnProgress func(lang string, done, total int)
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return 3
}

func (o *Options) effectiveChunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return 50
}

func (o *Options) effectiveRetryWait() time.Duration {
	if o.RetryWait > 0 {
		return o.RetryWait
	}
	return time.Second
}

// ---------------------------------------------------------------------------
// Translator
// ---------------------------------------------------------------------------

// Translator translates batches of texts through one service.
type Translator struct {
	opts Options
	http *resty.Client
}

// New returns a Translator for opts.Provider.
func New(opts Options) (*Translator, error) {
	p := opts.Provider
	p.ID = strings.ToLower(strings.TrimSpace(p.ID))
	def, ok := DefaultProviders()[p.ID]
	if !ok {
		return nil, fmt.Errorf("unknown translation service %q (supported: %s)", p.ID, strings.Join(Services(), ", "))
	}
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.BaseURL == "" {
		p.BaseURL = def.BaseURL
		if p.ID == ServiceDeepL && strings.HasSuffix(p.APIKey, ":fx") {
			p.BaseURL = deeplFreeURL
		}
	}
	if p.Model == "" {
		p.Model = def.Model
	}
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	if NeedsAPIKey(p.ID) && p.APIKey == "" {
		return nil, fmt.Errorf("%s requires an API key", p.Name)
	}
	opts.Provider = p

	wait := opts.effectiveRetryWait()
	client := resty.New().
		SetTimeout(p.Timeout).
		SetRetryCount(opts.effectiveMaxRetries()).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(30 * wait).
		AddRetryCondition(retryable).
		SetRetryAfter(retryAfter)
	if p.Proxy != "" {
		client.SetProxy(p.Proxy)
	}
	return &Translator{opts: opts, http: client}, nil
}

// ForService builds a Translator for service with its default endpoint.
func ForService(service, apiKey string) (*Translator, error) {
	return New(Options{Provider: Provider{ID: service, APIKey: apiKey}})
}

// Provider returns the effective provider configuration.
func (t *Translator) Provider() Provider { return t.opts.Provider }

// Translate translates texts into targetLang. Interpolations are shielded
// from the service and restored verbatim. The result has the same length
// and order as texts.
func (t *Translator) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(texts))
	for _, chunk := range splitStrings(texts, t.opts.effectiveChunkSize()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		protected := make([]string, len(chunk))
		tokens := make([][]string, len(chunk))
		for i, s := range chunk {
			protected[i], tokens[i] = Protect(s)
		}

		var res []string
		var err error
		if t.opts.Provider.ID == ServiceDeepL {
			res, err = t.deepl(ctx, protected, targetLang)
		} else {
			res, err = t.chat(ctx, protected, targetLang)
		}
		if err != nil {
			return nil, err
		}
		if len(res) != len(chunk) {
			return nil, fmt.Errorf("%s returned %d translations for %d texts", t.opts.Provider.Name, len(res), len(chunk))
		}
		for i, s := range res {
			out = append(out, Restore(s, tokens[i]))
		}

		log.Debug().Str("service", t.opts.Provider.ID).Str("language", targetLang).
			Int("done", len(out)).Int("total", len(texts)).Msg("chunk translated")
		if t.opts.OnProgress != nil {
			t.opts.OnProgress(targetLang, len(out), len(texts))
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Retries
// ---------------------------------------------------------------------------

func retryable(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	return r.StatusCode() == 429 || r.StatusCode() >= 500
}

// retryAfter honours a Retry-After header given in seconds. Zero lets resty
// fall back to its exponential backoff.
func retryAfter(_ *resty.Client, r *resty.Response) (time.Duration, error) {
	if r == nil {
		return 0, nil
	}
	if v := r.Header().Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second)), nil
		}
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func splitStrings(items []string, chunkSize int) [][]string {
	if chunkSize <= 0 || chunkSize >= len(items) {
		return [][]string{items}
	}
	var chunks [][]string
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// truncate truncates a string to maxLen bytes.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
