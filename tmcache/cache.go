// Package tmcache is a SQLite translation memory. It stores every
// translation a service returned, keyed by source text, language pair,
// service and model, and serves repeats without calling the service again.
package tmcache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// FileName is the default cache file name inside the project state dir.
const FileName = "tm.sqlite"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Key identifies one cached translation.
type Key struct {
	Text    string
	Source  string
	Target  string
	Service string
	Model   string
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int
	Hits    int
}

// Cache is a translation memory backed by SQLite.
type Cache struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// Open opens (creating if needed) the cache at dbPath and applies pending
// migrations.
func Open(dbPath string) (*Cache, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("make cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps pragmas and writes consistent.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db, sq: sq.StatementBuilder}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached translation for k. The second result is false on
// a miss. A hit increments the entry's hit counter.
func (c *Cache) Get(ctx context.Context, k Key) (string, bool, error) {
	q := c.sq.Select("id", "translation").
		From("translations").
		Where(sq.Eq{
			"source_text": k.Text,
			"src_lang":    k.Source,
			"tgt_lang":    k.Target,
			"service":     k.Service,
			"model":       k.Model,
		}).
		Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return "", false, err
	}
	var id int64
	var translation string
	if err := c.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id, &translation); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache lookup: %w", err)
	}

	upd, args, err := c.sq.Update("translations").
		Set("hits", sq.Expr("hits + 1")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", false, err
	}
	if _, err := c.db.ExecContext(ctx, upd, args...); err != nil {
		return "", false, fmt.Errorf("cache hit update: %w", err)
	}
	return translation, true, nil
}

// Put stores translation for k, replacing an earlier value.
func (c *Cache) Put(ctx context.Context, k Key, translation string) error {
	q := c.sq.Insert("translations").
		Columns("source_text", "src_lang", "tgt_lang", "service", "model", "translation", "created_at").
		Values(k.Text, k.Source, k.Target, k.Service, k.Model, translation, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(source_text, src_lang, tgt_lang, service, model) DO UPDATE SET translation=excluded.translation")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	if _, err := c.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}

// Stats counts entries and recorded hits.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	sqlStr, args, err := c.sq.Select("COUNT(*)", "COALESCE(SUM(hits), 0)").From("translations").ToSql()
	if err != nil {
		return Stats{}, err
	}
	var s Stats
	if err := c.db.QueryRowContext(ctx, sqlStr, args...).Scan(&s.Entries, &s.Hits); err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return s, nil
}

// Purge deletes entries for target (all targets when empty) and returns the
// number removed.
func (c *Cache) Purge(ctx context.Context, target string) (int64, error) {
	q := c.sq.Delete("translations")
	if target != "" {
		q = q.Where(sq.Eq{"tgt_lang": target})
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := c.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("cache purge: %w", err)
	}
	return res.RowsAffected()
}

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        applied_at TEXT NOT NULL
    )`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		var n int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE name = ?`, name).Scan(&n)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		b, err := migrationsFS.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(b)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations(name, applied_at) VALUES (?, ?)`, name, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}
