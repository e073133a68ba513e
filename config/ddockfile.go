// .ddock.yaml support. When the file exists in the project root it overrides
// the auto-detected project settings field by field. A missing file leaves the
// detected settings and built-in defaults in effect.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smartddock/ddock/keygen"
	"github.com/smartddock/ddock/locales"
	"github.com/smartddock/ddock/syntax"
	"github.com/smartddock/ddock/translate"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .ddock.yaml structure.
type File struct {
	// Languages are the store languages, source language included.
	Languages []string `yaml:"languages,omitempty"`
	// SourceLang is the language of the source text (default "ko").
	SourceLang string `yaml:"source_lang,omitempty"`
	// Namespace is the initial key namespace.
	Namespace string `yaml:"namespace,omitempty"`
	// Call is the translation function name written into sources (default "t").
	Call string `yaml:"call,omitempty"`
	// Sources are directories scanned for source files, relative to the root.
	Sources []string `yaml:"sources,omitempty"`
	// Extensions restricts scanned file extensions (default: all supported).
	Extensions []string `yaml:"extensions,omitempty"`
	// Exclude lists text IDs, as printed by scan, that are never converted.
	Exclude []string `yaml:"exclude,omitempty"`

	Locales     LocalesConfig     `yaml:"locales,omitempty"`
	Keys        KeysConfig        `yaml:"key_generation,omitempty"`
	Translation TranslationConfig `yaml:"translation,omitempty"`
	Watch       WatchConfig       `yaml:"watch,omitempty"`
	Spreadsheet SpreadsheetConfig `yaml:"spreadsheet,omitempty"`
}

// LocalesConfig locates the locale stores.
type LocalesConfig struct {
	// OutputDir is the store directory relative to the root.
	OutputDir string `yaml:"output_dir,omitempty"`
	// FilenamePattern supports {language} and {namespace}.
	FilenamePattern string `yaml:"filename_pattern,omitempty"`
}

// KeysConfig selects the key transform.
type KeysConfig struct {
	Transform string        `yaml:"transform,omitempty"`
	Rules     []keygen.Rule `yaml:"rules,omitempty"`
}

// TranslationConfig selects the translation service.
type TranslationConfig struct {
	Service   string `yaml:"service,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	ChunkSize int    `yaml:"chunk_size,omitempty"`
	Prompt    string `yaml:"prompt,omitempty"`
	// Cache enables the translation memory (default true).
	Cache *bool `yaml:"cache,omitempty"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// SpreadsheetConfig is the default spreadsheet for sheet export/import.
type SpreadsheetConfig struct {
	Path  string `yaml:"path,omitempty"`
	Sheet string `yaml:"sheet,omitempty"`
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

const (
	// FileName is the config file name.
	FileName = ".ddock.yaml"
	// StateDir holds the ledger and translation memory, relative to the root.
	StateDir = ".ddock"

	DefaultCall     = "t"
	DefaultService  = translate.ServiceDeepL
	DefaultDebounce = 500 * time.Millisecond
	DefaultSheet    = "translations"
)

// DefaultLanguages is used when neither the config nor the project names any.
var DefaultLanguages = []string{"ko", "en"}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads .ddock.yaml from rootDir, fills unset fields from project
// detection and defaults, and validates the result.
func Load(rootDir string) (*File, error) {
	return LoadFrom(rootDir, "")
}

// LoadFrom is Load with an explicit config path. An empty path selects
// rootDir/.ddock.yaml; detection always runs against rootDir.
func LoadFrom(rootDir, path string) (*File, error) {
	if path == "" {
		path = filepath.Join(rootDir, FileName)
	}
	var f File
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	f.applyDefaults(Detect(rootDir))
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) applyDefaults(p *Project) {
	if f.SourceLang == "" {
		f.SourceLang = locales.DefaultSourceLanguage
	}
	if len(f.Languages) == 0 {
		f.Languages = p.Languages
	}
	if len(f.Languages) == 0 {
		f.Languages = DefaultLanguages
	}
	if f.Call == "" {
		f.Call = DefaultCall
	}
	if len(f.Sources) == 0 {
		f.Sources = p.SourceDirs
	}
	if len(f.Sources) == 0 {
		f.Sources = []string{"."}
	}
	if len(f.Extensions) == 0 {
		f.Extensions = syntax.SupportedExtensions()
	}
	if f.Locales.OutputDir == "" {
		f.Locales.OutputDir = p.LocalesDir
	}
	if f.Locales.FilenamePattern == "" {
		f.Locales.FilenamePattern = p.Pattern
	}
	if f.Translation.Service == "" {
		f.Translation.Service = DefaultService
	}
	if f.Translation.Cache == nil {
		on := true
		f.Translation.Cache = &on
	}
	if f.Watch.Debounce == 0 {
		f.Watch.Debounce = DefaultDebounce
	}
	if f.Spreadsheet.Sheet == "" {
		f.Spreadsheet.Sheet = DefaultSheet
	}
}

func (f *File) validate() error {
	for _, lang := range f.Languages {
		if !isLangCode(lang) {
			return fmt.Errorf("invalid language code %q", lang)
		}
	}
	if !isLangCode(f.SourceLang) {
		return fmt.Errorf("invalid source_lang %q", f.SourceLang)
	}
	for _, ext := range f.Extensions {
		if _, ok := syntax.ForFile("x" + ext); !ok {
			return fmt.Errorf("unsupported extension %q (valid: %s)", ext, strings.Join(syntax.SupportedExtensions(), ", "))
		}
	}
	if _, ok := translate.DefaultProviders()[f.Translation.Service]; !ok {
		return fmt.Errorf("unknown translation service %q (valid: %s)", f.Translation.Service, strings.Join(translate.Services(), ", "))
	}
	if f.Translation.ChunkSize < 0 {
		return fmt.Errorf("translation.chunk_size must not be negative")
	}
	if f.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if strings.TrimSpace(f.Call) != f.Call || strings.ContainsAny(f.Call, "()'\" ") {
		return fmt.Errorf("invalid call name %q", f.Call)
	}
	return nil
}

// Save writes f to rootDir/.ddock.yaml.
func (f *File) Save(rootDir string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(rootDir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Derived values
// ---------------------------------------------------------------------------

// AllLanguages returns the source language followed by the other configured
// languages, deduplicated.
func (f *File) AllLanguages() []string {
	seen := map[string]bool{f.SourceLang: true}
	all := []string{f.SourceLang}
	for _, lang := range f.Languages {
		if !seen[lang] {
			seen[lang] = true
			all = append(all, lang)
		}
	}
	return all
}

// KeyOptions returns the key generator options.
func (f *File) KeyOptions(onWarning func(string)) keygen.Options {
	return keygen.Options{Transform: f.Keys.Transform, Rules: f.Keys.Rules, OnWarning: onWarning}
}

// CacheEnabled reports whether the translation memory is on.
func (f *File) CacheEnabled() bool {
	return f.Translation.Cache == nil || *f.Translation.Cache
}

// SourceDirs returns the absolute source directories.
func (f *File) SourceDirs(rootDir string) []string {
	dirs := make([]string, len(f.Sources))
	for i, s := range f.Sources {
		dirs[i] = abs(rootDir, s)
	}
	return dirs
}

// OutputDir returns the absolute store directory.
func (f *File) OutputDir(rootDir string) string {
	return abs(rootDir, f.Locales.OutputDir)
}

// StatePath returns the path of name inside the state directory.
func StatePath(rootDir, name string) string {
	return filepath.Join(rootDir, StateDir, name)
}

func abs(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}
