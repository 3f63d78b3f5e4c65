// Package prefs persists user preferences (reading and speaking language)
// in SQLite so they survive restarts.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const table = "preferences"

// Store is a key/value preference table.
type Store struct {
	db *sql.DB
}

// Open opens or creates the preference database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path == ":memory:" {
		dsn = "file::memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps in-memory databases consistent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS preferences (
		name  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Set stores value under name, replacing any previous value.
func (s *Store) Set(ctx context.Context, name, value string) error {
	_, err := sq.Insert(table).
		Columns("name", "value").
		Values(name, value).
		Suffix("ON CONFLICT(name) DO UPDATE SET value = excluded.value").
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", name, err)
	}
	return nil
}

// Get returns the value stored under name.
func (s *Store) Get(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := sq.Select("value").
		From(table).
		Where(sq.Eq{"name": name}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", name, err)
	}
	return value, true, nil
}

// All returns every stored preference.
func (s *Store) All(ctx context.Context) (map[string]string, error) {
	rows, err := sq.Select("name", "value").
		From(table).
		OrderBy("name").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out[name] = value
	}
	return out, rows.Err()
}

// Delete removes name.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := sq.Delete(table).
		Where(sq.Eq{"name": name}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete preference %s: %w", name, err)
	}
	return nil
}
