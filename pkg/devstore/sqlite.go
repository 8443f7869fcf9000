// Package devstore is a small document store for local development and
// integration tests. It serves the endpoints the editor syncs against
// and keeps one JSON document per plan in SQLite.
package devstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned for a plan that was never saved.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    target     TEXT NOT NULL,
    body       TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (collection, target)
)`

// OpenSQLite opens the database at dbPath, creating its directory.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Repository stores plan documents.
type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init creates the schema.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, collection, target string) ([]byte, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT body FROM documents
        WHERE collection = ? AND target = ?
    `, collection, target)

	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(body), nil
}

func (r *Repository) Put(ctx context.Context, collection, target string, body []byte) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO documents (collection, target, body, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (collection, target) DO UPDATE
        SET body = excluded.body, updated_at = excluded.updated_at
    `, collection, target, string(body), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *Repository) Delete(ctx context.Context, collection, target string) error {
	res, err := r.db.ExecContext(ctx, `
        DELETE FROM documents WHERE collection = ? AND target = ?
    `, collection, target)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, collection, target string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM documents WHERE collection = ? AND target = ?
    `, collection, target).Scan(&n)
	return n > 0, err
}

// Targets lists the saved plans of a collection.
func (r *Repository) Targets(ctx context.Context, collection string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT target FROM documents WHERE collection = ? ORDER BY target
    `, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
