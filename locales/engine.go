package locales

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartddock/ddock/keygen"
	"github.com/smartddock/ddock/lockfile"
	"github.com/smartddock/ddock/session"
	"github.com/smartddock/ddock/syntax"
	"github.com/smartddock/ddock/variables"
)

// DefaultSourceLanguage is the language of the source text. Stores in this
// language receive the text itself and are never translated.
const DefaultSourceLanguage = "ko"

// Translator translates texts into targetLang. The result has the same
// length and order as texts.
type Translator interface {
	Translate(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// TranslationError reports a failed translation for one language.
type TranslationError struct {
	Language string
	Err      error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translating to %s: %v", e.Language, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// WriteError reports a failed store write.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing locale store %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Entry is one key/value pair destined for a store.
type Entry struct {
	Text      string   `json:"text"`
	Key       string   `json:"key"`
	Value     string   `json:"value"`
	Variables []string `json:"variables,omitempty"`
}

// Collision is a text whose key is already mapped to a different text.
type Collision struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Result summarizes one generate operation.
type Result struct {
	Language   string      `json:"language"`
	Path       string      `json:"path"`
	Added      []Entry     `json:"added"`
	Skipped    []string    `json:"skipped"`
	Collisions []Collision `json:"collisions,omitempty"`
	Translated int         `json:"translated"`
	Written    bool        `json:"written"`
}

// Stage names a step of a generate operation.
type Stage string

const (
	// StageReading is reported before the store is loaded.
	StageReading Stage = "reading"
	// StageTranslating is reported before new entries go to the translator.
	StageTranslating Stage = "translating"
	// StageWriting is reported right before a changed store is written.
	StageWriting Stage = "writing"
	// StageDone ends a language that succeeded, written or not.
	StageDone Stage = "done"
	// StageFailed ends a language that was aborted.
	StageFailed Stage = "failed"
)

// Progress is reported while generating stores.
type Progress struct {
	Language string
	Index    int // 1-based position of Language in the batch
	Total    int
	Stage    Stage
}

// Options configures an Engine.
type Options struct {
	Keys           *keygen.Generator
	Session        *session.Session
	Ledger         *lockfile.LockFile
	SourceLanguage string
	// Dir and Pattern locate stores; see ResolvePath.
	Dir     string
	Pattern string
	// OnProgress is called as each language moves through its stages.
	OnProgress func(Progress)
}

// Engine merges texts into locale stores without duplicating keys.
type Engine struct {
	opts Options
}

// New returns an Engine. Nil Keys selects the default generator.
func New(opts Options) *Engine {
	if opts.Keys == nil {
		opts.Keys = keygen.Default()
	}
	if opts.SourceLanguage == "" {
		opts.SourceLanguage = DefaultSourceLanguage
	}
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	return &Engine{opts: opts}
}

// Request describes one generate operation.
type Request struct {
	Family   syntax.Family
	Texts    []string
	Language string
	// Path overrides the store path derived from Dir and Pattern.
	Path string
	// Translator is used for languages other than the source language.
	// Nil stores the source text.
	Translator Translator

	beforeWrite func()
}

// item is a text that needs a new entry.
type item struct {
	index int
	text  string
	key   string
	info  variables.Info
}

func (e *Engine) namespace() string {
	if e.opts.Session == nil {
		return ""
	}
	return e.opts.Session.Namespace()
}

// StorePath returns the store path for language under the current namespace.
func (e *Engine) StorePath(language string) string {
	return ResolvePath(e.opts.Dir, e.opts.Pattern, language, e.namespace())
}

// classify splits texts into new items and skipped keys. A text is skipped
// when its key exists in the store or was already produced in this batch.
func (e *Engine) classify(f syntax.Family, texts []string, existing *Map, ns string) (todo []item, skipped []string) {
	produced := make(map[string]bool, len(texts))
	for i, text := range texts {
		info := variables.Extract(f, text)
		key := e.opts.Keys.KeyFor(info, ns)
		if existing.Has(key) || produced[key] {
			skipped = append(skipped, key)
			continue
		}
		produced[key] = true
		todo = append(todo, item{index: i, text: text, key: key, info: info})
	}
	return todo, skipped
}

// Generate merges req.Texts into one store. Nothing is written and no
// translation is requested when every key already exists.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	ns := e.namespace()
	path := req.Path
	if path == "" {
		path = ResolvePath(e.opts.Dir, e.opts.Pattern, req.Language, ns)
	}
	res := &Result{Language: req.Language, Path: path}
	if len(req.Texts) == 0 {
		return res, nil
	}

	existing := ReadStore(path)
	todo, skipped := e.classify(req.Family, req.Texts, existing, ns)
	res.Skipped = skipped
	res.Collisions = e.collisions(path, req.Family, req.Texts, ns)
	if len(todo) == 0 {
		log.Debug().Str("language", req.Language).Int("skipped", len(skipped)).Msg("store up to date")
		return res, nil
	}

	translated := make(map[int]string, len(todo))
	if req.Translator != nil && !e.isSource(req.Language) {
		sources := make([]string, len(todo))
		for i, it := range todo {
			sources[i] = keygen.StripQuotes(it.text)
		}
		out, err := req.Translator.Translate(ctx, sources, req.Language)
		if err != nil {
			return res, &TranslationError{Language: req.Language, Err: err}
		}
		if len(out) != len(todo) {
			return res, &TranslationError{
				Language: req.Language,
				Err:      fmt.Errorf("got %d translations for %d texts", len(out), len(todo)),
			}
		}
		for i, it := range todo {
			if strings.TrimSpace(out[i]) != "" {
				translated[it.index] = out[i]
				res.Translated++
			}
		}
	}

	for _, it := range todo {
		entry := e.entry(req.Family, it, translated)
		existing.Set(entry.Key, entry.Value)
		res.Added = append(res.Added, entry)
		if e.opts.Ledger != nil {
			e.opts.Ledger.Record(lockfile.TargetKey(path), entry.Key, it.text)
		}
	}

	if req.beforeWrite != nil {
		req.beforeWrite()
	}
	if err := WriteStore(path, existing); err != nil {
		return res, &WriteError{Path: path, Err: err}
	}
	res.Written = true
	log.Debug().Str("language", req.Language).Str("path", path).
		Int("added", len(res.Added)).Int("skipped", len(res.Skipped)).Msg("store updated")
	return res, nil
}

// entry builds the store value for it. Texts without interpolation are
// stored literally; otherwise interpolations become {N} placeholders. A
// translation that loses placeholders is replaced by the source template.
func (e *Engine) entry(f syntax.Family, it item, translated map[int]string) Entry {
	use, ok := translated[it.index]
	if !ok {
		use = keygen.StripQuotes(it.text)
	}
	ent := Entry{Text: it.text, Key: it.key, Value: use}
	if !it.info.HasVariables() {
		return ent
	}
	ent.Variables = it.info.Variables
	ent.Value = variables.Rewrite(f, use, it.info.Variables)

	want := variables.CountPlaceholders(keygen.StripQuotes(it.info.Template))
	if variables.CountPlaceholders(ent.Value) != want {
		log.Warn().Str("key", it.key).Str("translation", use).
			Msg("translation lost placeholders, keeping source text")
		ent.Value = keygen.StripQuotes(it.info.Template)
	}
	return ent
}

// collisions lists texts whose key the ledger attributes to another text.
func (e *Engine) collisions(path string, f syntax.Family, texts []string, ns string) []Collision {
	if e.opts.Ledger == nil {
		return nil
	}
	target := lockfile.TargetKey(path)
	seen := make(map[string]string, len(texts))
	var out []Collision
	for _, text := range texts {
		key := e.opts.Keys.KeyFor(variables.Extract(f, text), ns)
		if prev, ok := seen[key]; ok {
			if prev != text {
				out = append(out, Collision{Key: key, Text: text})
			}
			continue
		}
		seen[key] = text
		if e.opts.Ledger.Check(target, key, text) == lockfile.Collision {
			out = append(out, Collision{Key: key, Text: text})
		}
	}
	for _, c := range out {
		log.Warn().Str("key", c.Key).Str("text", c.Text).Msg("key already mapped to a different text, keeping the first")
	}
	return out
}

func (e *Engine) isSource(language string) bool {
	return strings.EqualFold(language, e.opts.SourceLanguage)
}

// LanguageResult is the outcome of one language in a batch.
type LanguageResult struct {
	Language string
	Result   *Result
	Err      error
}

// GenerateAll runs Generate for each language strictly one after another. A
// failure aborts only the affected language. The source language never
// reaches the translator. A nil translator is an error for other languages.
func (e *Engine) GenerateAll(ctx context.Context, f syntax.Family, texts []string, languages []string, tr Translator) []LanguageResult {
	results := make([]LanguageResult, 0, len(languages))
	for i, lang := range languages {
		p := Progress{Language: lang, Index: i + 1, Total: len(languages)}
		lr := LanguageResult{Language: lang}

		if err := ctx.Err(); err != nil {
			lr.Err = err
			results = append(results, lr)
			e.progress(p, StageFailed)
			continue
		}

		e.progress(p, StageReading)
		req := Request{Family: f, Texts: texts, Language: lang}
		req.beforeWrite = func() { e.progress(p, StageWriting) }
		if !e.isSource(lang) {
			if tr == nil {
				lr.Err = &TranslationError{Language: lang, Err: fmt.Errorf("no translation service configured")}
				results = append(results, lr)
				e.progress(p, StageFailed)
				continue
			}
			req.Translator = tr
			e.progress(p, StageTranslating)
		}

		res, err := e.Generate(ctx, req)
		lr.Result, lr.Err = res, err
		results = append(results, lr)
		if err != nil {
			log.Error().Err(err).Str("language", lang).Msg("language failed")
			e.progress(p, StageFailed)
			continue
		}
		e.progress(p, StageDone)
	}
	return results
}

func (e *Engine) progress(p Progress, s Stage) {
	if e.opts.OnProgress == nil {
		return
	}
	p.Stage = s
	e.opts.OnProgress(p)
}
