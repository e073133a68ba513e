// Package lockfile implements ddock.lock, a ledger of the source text behind
// every generated key, recorded as an MD5 checksum per locale store.
//
// Keys are derived from text, so two different texts can produce the same
// key (for example "a.b" and "a#dot#b"). The ledger keeps the first mapping
// and lets callers detect later texts that collide with it.
//
// The lock file is stored alongside .ddock.yaml as ddock.lock.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "ddock.lock"

// Version is the lock file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// LockFile represents the ddock.lock file structure.
type LockFile struct {
	Version int                          `yaml:"version"`
	Sources map[string]map[string]string `yaml:"sources"` // store -> key -> md5(source text)

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// Status is the ledger's view of a (key, source text) pair.
type Status int

const (
	// Unknown means the key has no recorded source.
	Unknown Status = iota
	// Same means the key was recorded for this source text.
	Same
	// Collision means the key was recorded for a different source text.
	Collision
)

func (s Status) String() string {
	switch s {
	case Same:
		return "same"
	case Collision:
		return "collision"
	default:
		return "unknown"
	}
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// New returns an empty lock file that will be saved in dir.
func New(dir string) *LockFile {
	return &LockFile{
		Version: Version,
		Sources: make(map[string]map[string]string),
		path:    filepath.Join(dir, LockFileName),
	}
}

// Load reads a lock file from the given directory.
// Returns an empty lock file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	lf := New(dir)

	data, err := os.ReadFile(lf.path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", lf.path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", lf.path, err)
	}
	if lf.Sources == nil {
		lf.Sources = make(map[string]map[string]string)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Ledger operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// TargetKey builds the ledger key for a locale store path,
// e.g. "locales/locales.en.json".
func TargetKey(filePath string) string {
	return filepath.ToSlash(filepath.Clean(filePath))
}

// Check reports how source relates to the text recorded for key.
func (lf *LockFile) Check(target, key, source string) Status {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	keys, ok := lf.Sources[target]
	if !ok {
		return Unknown
	}
	h, ok := keys[key]
	if !ok {
		return Unknown
	}
	if h == Hash(source) {
		return Same
	}
	return Collision
}

// Record stores source as the origin of key unless the key already has one.
// It returns the resulting status; Collision means the existing mapping was
// kept.
func (lf *LockFile) Record(target, key, source string) Status {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.Sources[target] == nil {
		lf.Sources[target] = make(map[string]string)
	}
	h := Hash(source)
	old, ok := lf.Sources[target][key]
	switch {
	case !ok:
		lf.Sources[target][key] = h
		return Unknown
	case old == h:
		return Same
	default:
		return Collision
	}
}

// Clean removes entries from the lock file that are no longer present in
// the current set of keys. This prevents stale entries from accumulating.
func (lf *LockFile) Clean(target string, currentKeys []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	existing := lf.Sources[target]
	if existing == nil {
		return
	}

	valid := make(map[string]bool, len(currentKeys))
	for _, k := range currentKeys {
		valid[k] = true
	}

	for k := range existing {
		if !valid[k] {
			delete(existing, k)
		}
	}
}

// RemoveTarget removes all entries for a store.
func (lf *LockFile) RemoveTarget(target string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	delete(lf.Sources, target)
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Stats returns the number of stores and total keys in the lock file.
func (lf *LockFile) Stats() (targets, keys int) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	targets = len(lf.Sources)
	for _, m := range lf.Sources {
		keys += len(m)
	}
	return
}

// Targets returns sorted list of store keys.
func (lf *LockFile) Targets() []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	targets := make([]string, 0, len(lf.Sources))
	for t := range lf.Sources {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	return targets
}

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	targets, keys := lf.Stats()
	if targets == 0 {
		return "empty"
	}

	var parts []string
	for _, t := range lf.Targets() {
		lf.mu.Lock()
		n := len(lf.Sources[t])
		lf.mu.Unlock()
		parts = append(parts, fmt.Sprintf("%s: %d keys", t, n))
	}
	return fmt.Sprintf("%d stores, %d keys (%s)", targets, keys, strings.Join(parts, ", "))
}
