// Package settings stores per-user ddock settings, currently the API keys of
// the translation services.
//
// Settings live in the XDG data directory:
//
//	$XDG_DATA_HOME/ddock/  (default: ~/.local/share/ddock/)
//
// auth.json is a JSON object keyed by service ID (deepl, openai, groq,
// ollama). File permissions are 0600 (owner read/write only).
//
// Lookup order for API keys:
//  1. --api-key flag (highest priority)
//  2. DDOCK_API_KEY or the service's own environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	dataDirName = "ddock"
	fileName    = "auth.json"
)

// Info is the entry stored per service in auth.json.
type Info struct {
	// Key is the service API key.
	Key string `json:"key,omitempty"`
	// BaseURL overrides the service endpoint (self-hosted or proxy).
	BaseURL string `json:"baseUrl,omitempty"`
	// Model is the preferred chat model.
	Model string `json:"model,omitempty"`
}

// Store holds all service credentials, keyed by service ID.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for ddock.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the ddock data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Get / Set / Remove
// ---------------------------------------------------------------------------

// Get returns the entry for a service, or nil if not found.
func Get(service string) *Info {
	return Load()[service]
}

// Set stores an entry for a service (upsert).
func Set(service string, info *Info) error {
	store := Load()
	store[service] = info
	return Save(store)
}

// SetAPIKey stores an API key for a service, keeping its other fields.
func SetAPIKey(service, key string) error {
	store := Load()
	info := store[service]
	if info == nil {
		info = &Info{}
	}
	info.Key = key
	store[service] = info
	return Save(store)
}

// GetAPIKey returns the stored API key for a service, or "".
func GetAPIKey(service string) string {
	if info := Get(service); info != nil {
		return info.Key
	}
	return ""
}

// GetBaseURL returns the stored base URL for a service, or "".
func GetBaseURL(service string) string {
	if info := Get(service); info != nil {
		return info.BaseURL
	}
	return ""
}

// Remove deletes credentials for a service.
func Remove(service string) error {
	store := Load()
	if _, ok := store[service]; !ok {
		return nil
	}
	delete(store, service)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// Services returns the IDs with stored credentials, sorted.
func (s Store) Services() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MaskKey returns a masked version of a key for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// ---------------------------------------------------------------------------
// API key resolution
// ---------------------------------------------------------------------------

// EnvAPIKey is the generic environment variable consulted for any service.
const EnvAPIKey = "DDOCK_API_KEY"

// EnvVarForService returns the service-specific API key variable, or "" for
// services without one.
func EnvVarForService(service string) string {
	switch service {
	case "deepl":
		return "DEEPL_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	}
	return ""
}

// ResolveAPIKey returns the first non-empty key from the flag value, the
// DDOCK_API_KEY and service environment variables, and the store.
func ResolveAPIKey(service, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v
	}
	if name := EnvVarForService(service); name != "" {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return GetAPIKey(service)
}
