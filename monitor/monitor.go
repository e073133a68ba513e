// Package monitor watches source trees and reports changed files after a
// quiet period. Each file has its own debounce timer: a new change cancels
// the pending report for that file and restarts the wait.
package monitor

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/smartddock/ddock/extract"
	"github.com/smartddock/ddock/syntax"
)

// Options configures a Monitor.
type Options struct {
	// Dirs are watched recursively.
	Dirs []string
	// Extensions limits reported files; empty means every supported source.
	Extensions []string
	// Debounce is the quiet period before a change is reported.
	Debounce time.Duration
	// OnChange runs on a timer goroutine once per settled file.
	OnChange func(path string)
}

// Monitor reports settled source file changes.
type Monitor struct {
	opts    Options
	allowed map[string]bool
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]func(func())
}

// New returns a Monitor. Call Run to start watching.
func New(opts Options) (*Monitor, error) {
	if opts.OnChange == nil {
		return nil, fmt.Errorf("monitor: OnChange is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}
	m := &Monitor{opts: opts, pending: make(map[string]func(func()))}
	if len(opts.Extensions) > 0 {
		m.allowed = make(map[string]bool, len(opts.Extensions))
		for _, ext := range opts.Extensions {
			m.allowed[strings.ToLower(ext)] = true
		}
	}
	return m, nil
}

// Watches reports whether path is a file the monitor reports on.
func (m *Monitor) Watches(path string) bool {
	if _, ok := syntax.ForFile(path); !ok {
		return false
	}
	return m.allowed == nil || m.allowed[strings.ToLower(filepath.Ext(path))]
}

// Trigger schedules a report for path, replacing any pending one.
func (m *Monitor) Trigger(path string) {
	m.mu.Lock()
	d, ok := m.pending[path]
	if !ok {
		d = debounce.New(m.opts.Debounce)
		m.pending[path] = d
	}
	m.mu.Unlock()
	d(func() { m.opts.OnChange(path) })
}

// Run watches the configured directories until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	m.watcher = w

	for _, dir := range m.opts.Dirs {
		if err := m.addTree(dir); err != nil {
			return err
		}
	}
	log.Debug().Strs("dirs", m.opts.Dirs).Dur("debounce", m.opts.Debounce).Msg("watching")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			m.handle(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (m *Monitor) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := m.addTree(ev.Name); err != nil {
				log.Warn().Err(err).Str("dir", ev.Name).Msg("cannot watch new directory")
			}
			return
		}
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	if m.Watches(ev.Name) {
		m.Trigger(ev.Name)
	}
}

// addTree watches dir and its subdirectories, skipping dependency and build
// output directories.
func (m *Monitor) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && extract.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := m.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
