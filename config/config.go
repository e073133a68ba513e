// Package config implements auto-detection of project settings from the
// project layout (package.json, source directories, existing locale stores)
// and loading of the .ddock.yaml overrides.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Project holds auto-detected project configuration. Paths are relative to
// Root.
type Project struct {
	// Name from package.json or the directory name.
	Name string
	// Version from package.json.
	Version string
	// Root is the absolute project root.
	Root string
	// SourceDirs are directories to scan for translatable source files.
	SourceDirs []string
	// LocalesDir is the directory holding existing locale stores.
	LocalesDir string
	// Pattern is the store file name pattern matching the existing stores.
	Pattern string
	// Languages detected from existing stores.
	Languages []string
}

var (
	sourceDirCandidates = []string{"src", "app", "pages", "components", "client", "lib"}
	localeDirCandidates = []string{"locales", filepath.Join("src", "locales"), filepath.Join("src", "i18n"), "i18n", filepath.Join("public", "locales")}
)

// Detect auto-detects project settings from the working directory.
func Detect(rootDir string) *Project {
	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		absRoot = rootDir
	}
	p := &Project{Root: absRoot}

	if name, version, err := parsePackageJSON(filepath.Join(absRoot, "package.json")); err == nil {
		p.Name = name
		p.Version = version
	}
	if p.Name == "" {
		p.Name = filepath.Base(absRoot)
	}
	if p.Version == "" {
		p.Version = "0.0.0"
	}

	for _, candidate := range sourceDirCandidates {
		if isDir(filepath.Join(absRoot, candidate)) {
			p.SourceDirs = append(p.SourceDirs, candidate)
		}
	}

	// The root itself is checked last: stores are often kept next to
	// package.json.
	for _, candidate := range append(append([]string(nil), localeDirCandidates...), ".") {
		dir := filepath.Join(absRoot, candidate)
		if !isDir(dir) {
			continue
		}
		if langs, pattern := detectLanguages(dir); len(langs) > 0 {
			if candidate != "." {
				p.LocalesDir = candidate
			}
			p.Languages = langs
			p.Pattern = pattern
			break
		}
	}
	return p
}

// detectLanguages finds language codes from store files in dir. Files named
// locales.<lang>.json take precedence over <lang>.json.
func detectLanguages(dir string) ([]string, string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ""
	}

	var prefixed, bare []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		lang := strings.TrimSuffix(name, ".json")
		if rest, ok := strings.CutPrefix(lang, "locales."); ok {
			if isLangCode(rest) {
				prefixed = append(prefixed, rest)
			}
			continue
		}
		if isLangCode(lang) {
			bare = append(bare, lang)
		}
	}
	if len(prefixed) > 0 {
		sort.Strings(prefixed)
		return prefixed, "locales.{language}.json"
	}
	if len(bare) > 0 {
		sort.Strings(bare)
		return bare, "{language}.json"
	}
	return nil, ""
}

// isLangCode checks if a string looks like a language code.
// Supports: en, ko, fil, pt-BR, zh-Hant, pt_BR.
func isLangCode(s string) bool {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) == 0 || len(parts) > 3 || strings.Trim(s, "-_") != s || strings.Contains(s, "--") {
		return false
	}
	if n := len(parts[0]); n < 2 || n > 3 || !isLower(parts[0]) {
		return false
	}
	for _, part := range parts[1:] {
		if len(part) < 2 || len(part) > 8 || !isAlnum(part) {
			return false
		}
	}
	return true
}

func isLower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func isAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// parsePackageJSON extracts the package name and version.
func parsePackageJSON(path string) (name, version string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	var pkg struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", "", err
	}
	return pkg.Name, pkg.Version, nil
}
