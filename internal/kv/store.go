// Package kv provides the flat persistence layer: JSON documents addressed
// by string keys of the form "entity:id". Writes are upserts with
// last-write-wins semantics; there are no transactions across keys.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a key has no entry.
var ErrNotFound = errors.New("kv: key not found")

// Store is the key-value surface the repositories are built on.
type Store interface {
	// Get unmarshals the value at key into dst. Returns ErrNotFound when
	// the key is absent.
	Get(ctx context.Context, key string, dst interface{}) error
	// Put marshals value and upserts it at key.
	Put(ctx context.Context, key string, value interface{}) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// ListPrefix unmarshals every value whose key starts with the literal
	// prefix, appending into dst, which must be a pointer to a slice.
	ListPrefix(ctx context.Context, prefix string, dst interface{}) error
	// Ping verifies connectivity for health checks.
	Ping(ctx context.Context) error
}

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type postgresStore struct {
	db DB
}

// NewPostgresStore returns a Store backed by the kv_entries table.
func NewPostgresStore(db DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) Get(ctx context.Context, key string, dst interface{}) error {
	var raw []byte
	query := `SELECT value FROM kv_entries WHERE key = $1`
	err := s.db.QueryRow(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (s *postgresStore) Put(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err = s.db.Exec(ctx, query, key, raw)
	return err
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE key = $1`
	_, err := s.db.Exec(ctx, query, key)
	return err
}

// likeEscaper makes a prefix safe for LIKE: "user_email:" must not match
// "userXemail:".
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *postgresStore) ListPrefix(ctx context.Context, prefix string, dst interface{}) error {
	query := `SELECT value FROM kv_entries WHERE key LIKE $1 || '%' ORDER BY key`
	rows, err := s.db.Query(ctx, query, likeEscaper.Replace(prefix))
	if err != nil {
		return err
	}
	defer rows.Close()

	var values []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		values = append(values, json.RawMessage(raw))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// Re-marshal the collected documents as one JSON array so dst can be
	// any slice type.
	merged, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("kv: merge prefix %q: %w", prefix, err)
	}
	return json.Unmarshal(merged, dst)
}

func (s *postgresStore) Ping(ctx context.Context) error {
	_, err := s.db.Exec(ctx, "SELECT 1")
	return err
}
