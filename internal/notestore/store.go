// Package notestore provides SQLite-backed durable storage for notes.
package notestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/halloran/voxnote/internal/apperr"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL DEFAULT '',
	transcript TEXT NOT NULL DEFAULT '',
	summary    TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL DEFAULT '',
	duration   TEXT NOT NULL DEFAULT '',
	score      INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_created_at ON notes(created_at);
`

// Store defines the note persistence contract. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing.
type Store interface {
	Create(ctx context.Context, n *Note) error
	Get(ctx context.Context, id string) (*Note, error)
	List(ctx context.Context) ([]Note, error)
	Update(ctx context.Context, id string, f UpdateFields) (*Note, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// DB wraps a sql.DB with note-specific operations.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("notestore: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("notestore: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("notestore: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Create inserts a new note, assigning its identifier and creation time.
func (db *DB) Create(ctx context.Context, n *Note) error {
	if n.Score < MinScore || n.Score > MaxScore {
		return fmt.Errorf("notestore: score %d outside [%d,%d]", n.Score, MinScore, MaxScore)
	}

	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (id, email, title, transcript, summary, content, duration, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Email, n.Title, n.Transcript, n.Summary, n.Content, n.Duration, n.Score, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert note: %v", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns one note by id.
func (db *DB) Get(ctx context.Context, id string) (*Note, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, email, title, transcript, summary, content, duration, score, created_at
		FROM notes WHERE id = ?
	`, id)

	var n Note
	err := row.Scan(&n.ID, &n.Email, &n.Title, &n.Transcript, &n.Summary, &n.Content, &n.Duration, &n.Score, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get note: %v", apperr.ErrStorageUnavailable, err)
	}
	return &n, nil
}

// List returns all notes, most recent creation first.
func (db *DB) List(ctx context.Context) ([]Note, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, email, title, transcript, summary, content, duration, score, created_at
		FROM notes ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list notes: %v", apperr.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	out := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Email, &n.Title, &n.Transcript, &n.Summary, &n.Content, &n.Duration, &n.Score, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan note: %v", apperr.ErrStorageUnavailable, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list notes: %v", apperr.ErrStorageUnavailable, err)
	}
	return out, nil
}

// Update applies a point update to title and/or content and returns the
// updated note. Unknown ids report ErrNotFound.
func (db *DB) Update(ctx context.Context, id string, f UpdateFields) (*Note, error) {
	if f.Title == nil && f.Content == nil {
		return db.Get(ctx, id)
	}

	set := ""
	args := []any{}
	if f.Title != nil {
		set += "title = ?"
		args = append(args, *f.Title)
	}
	if f.Content != nil {
		if set != "" {
			set += ", "
		}
		set += "content = ?"
		args = append(args, *f.Content)
	}
	args = append(args, id)

	res, err := db.conn.ExecContext(ctx, "UPDATE notes SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("%w: update note: %v", apperr.ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: update note: %v", apperr.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return nil, apperr.ErrNotFound
	}
	return db.Get(ctx, id)
}

// Delete permanently removes a note. Unknown ids report ErrNotFound.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete note: %v", apperr.ErrStorageUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: delete note: %v", apperr.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
