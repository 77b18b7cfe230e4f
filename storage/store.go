// Package storage provides a SQLite-backed progression store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/rayfighter/progression"
	"github.com/milk9111/rayfighter/storage/migrations"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// Store persists save records in SQLite, one msgpack blob per key.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ progression.Store = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens the database at path and applies the embedded schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func applyMigrations(db *sql.DB) error {
	names, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.Exec(string(body)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Load returns the record for key, or progression.ErrNotFound.
func (s *Store) Load(ctx context.Context, key string) (*progression.Save, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	var blob []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT record FROM saves WHERE key = ?`, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, progression.ErrNotFound
		}
		return nil, fmt.Errorf("get save %s: %w", key, err)
	}
	var save progression.Save
	if err := msgpack.Unmarshal(blob, &save); err != nil {
		return nil, fmt.Errorf("decode save %s: %w", key, err)
	}
	return &save, nil
}

// Save upserts the record for key.
func (s *Store) Save(ctx context.Context, key string, save *progression.Save) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("save key is required")
	}
	if save == nil {
		return fmt.Errorf("save record is required")
	}
	blob, err := msgpack.Marshal(save)
	if err != nil {
		return fmt.Errorf("encode save %s: %w", key, err)
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO saves (key, record, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		key,
		blob,
		toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("put save %s: %w", key, err)
	}
	return nil
}

// UpdatedAt reports when key was last written.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	if s == nil || s.sqlDB == nil {
		return time.Time{}, fmt.Errorf("storage is not configured")
	}
	var millis int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT updated_at FROM saves WHERE key = ?`, key).Scan(&millis)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, progression.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("get save %s: %w", key, err)
	}
	return time.UnixMilli(millis).UTC(), nil
}
