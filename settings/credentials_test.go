package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDataDirAndFilePathUseXDGDataHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	wantDir := filepath.Join(tmp, "ddock")
	if dir != wantDir {
		t.Fatalf("DataDir() = %q, want %q", dir, wantDir)
	}

	wantPath := filepath.Join(tmp, "ddock", "auth.json")
	if got := FilePath(); got != wantPath {
		t.Fatalf("FilePath() = %q, want %q", got, wantPath)
	}
}

func TestSaveLoadRemoveLifecycle(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store := Store{
		"deepl":  {Key: "apikey123456:fx"},
		"ollama": {BaseURL: "http://gpu-box:11434/v1", Model: "qwen2.5"},
	}

	if err := Save(store); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	path := filepath.Join(tmp, "ddock", "auth.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat auth.json: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("auth.json mode = %o, want 600", info.Mode().Perm())
	}

	loaded := Load()
	if got := loaded.Services(); !reflect.DeepEqual(got, []string{"deepl", "ollama"}) {
		t.Fatalf("Services() = %q", got)
	}
	if GetAPIKey("deepl") != "apikey123456:fx" {
		t.Fatalf("Load() missing deepl key: %#v", loaded["deepl"])
	}
	if GetBaseURL("ollama") != "http://gpu-box:11434/v1" {
		t.Fatalf("Load() missing ollama base URL: %#v", loaded["ollama"])
	}

	if err := SetAPIKey("ollama", "local"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}
	if got := Get("ollama"); got.Key != "local" || got.Model != "qwen2.5" {
		t.Fatalf("SetAPIKey dropped fields: %#v", got)
	}

	if err := Remove("deepl"); err != nil {
		t.Fatalf("Remove(deepl) error: %v", err)
	}
	if got := GetAPIKey("deepl"); got != "" {
		t.Fatalf("GetAPIKey after remove = %q, want empty", got)
	}
	if Get("ollama") == nil {
		t.Fatalf("ollama should remain after removing deepl")
	}

	if err := Remove("missing-service"); err != nil {
		t.Fatalf("Remove(missing) should be no-op, got: %v", err)
	}

	if err := RemoveAll(); err != nil {
		t.Fatalf("RemoveAll() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("auth.json should be removed, stat err=%v", err)
	}
	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() after RemoveAll should be empty, got=%#v", got)
	}
}

func TestLoadInvalidFileIsEmpty(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	if err := os.MkdirAll(filepath.Join(tmp, "ddock"), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmp, "ddock", "auth.json"), []byte("{oops"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := Load(); len(got) != 0 {
		t.Fatalf("Load() = %#v, want empty", got)
	}
}

func TestResolveAPIKeyPriority(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)
	t.Setenv(EnvAPIKey, "")

	if err := SetAPIKey("deepl", "stored-key"); err != nil {
		t.Fatalf("SetAPIKey() error: %v", err)
	}

	t.Setenv("DEEPL_API_KEY", "env-key")

	if got := ResolveAPIKey("deepl", "flag-key"); got != "flag-key" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := ResolveAPIKey("deepl", ""); got != "env-key" {
		t.Fatalf("env should win over store, got %q", got)
	}

	t.Setenv(EnvAPIKey, "generic-key")
	if got := ResolveAPIKey("deepl", ""); got != "generic-key" {
		t.Fatalf("DDOCK_API_KEY should win over service env, got %q", got)
	}

	t.Setenv(EnvAPIKey, "")
	t.Setenv("DEEPL_API_KEY", "")
	if got := ResolveAPIKey("deepl", ""); got != "stored-key" {
		t.Fatalf("stored key expected, got %q", got)
	}
}

func TestEnvVarForServiceAndMaskKey(t *testing.T) {
	cases := map[string]string{
		"deepl":   "DEEPL_API_KEY",
		"openai":  "OPENAI_API_KEY",
		"groq":    "GROQ_API_KEY",
		"ollama":  "",
		"unknown": "",
	}
	for service, want := range cases {
		if got := EnvVarForService(service); got != want {
			t.Fatalf("EnvVarForService(%q) = %q, want %q", service, got, want)
		}
	}

	if got := MaskKey("short"); got != "****" {
		t.Fatalf("MaskKey(short) = %q, want ****", got)
	}
	if got := MaskKey("12345678"); got != "****" {
		t.Fatalf("MaskKey(8 chars) = %q, want ****", got)
	}
	if got := MaskKey("123456789"); got != "1234...6789" {
		t.Fatalf("MaskKey(9 chars) = %q, want 1234...6789", got)
	}
}
