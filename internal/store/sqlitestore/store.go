// Package sqlitestore keeps scheduler documents as JSON text in an
// embedded SQLite database. It is the default store for a single-host
// deployment and the store the service tests run against.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"driver-scheduler/internal/store"
)

var schema = []string{
	`PRAGMA journal_mode=WAL;`,
	`CREATE TABLE IF NOT EXISTS appointment_types (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id  TEXT NOT NULL UNIQUE,
		doc TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS appointments (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id  TEXT NOT NULL UNIQUE,
		doc TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS appointments_type_idx
		ON appointments (json_extract(doc, '$.appointment_type_id'));`,
	`CREATE TABLE IF NOT EXISTS auth_config (
		user_name TEXT PRIMARY KEY,
		doc       TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS settings (
		name TEXT PRIMARY KEY,
		doc  TEXT NOT NULL
	);`,
}

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New wraps an open handle without touching the schema.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+strings.TrimPrefix(path, "file:"))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// one writer; sqlite serializes anyway and this keeps :memory: a single database
	db.SetMaxOpenConns(1)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite schema: %w", err)
		}
	}
	return New(db), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanDocs[T any](rows *sql.Rows) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func getDoc[T any](ctx context.Context, db *sql.DB, q string, args ...any) (*T, error) {
	var raw string
	err := db.QueryRowContext(ctx, q, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v := new(T)
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return nil, err
	}
	return v, nil
}

func affected(res sql.Result) (int64, error) {
	return res.RowsAffected()
}

// merge applies fields to the document of id with json_patch.
func (s *Store) merge(ctx context.Context, table, id string, fields map[string]any) error {
	patch, err := encode(fields)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET doc = json_patch(doc, ?) WHERE id = ?`, patch, id)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) remove(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
