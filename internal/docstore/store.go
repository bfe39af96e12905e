// ============================================================================
// dashscript - Dashboard Command Engine
// ============================================================================
//
// Package:     docstore
// Description: SQLite revision store for dashboard documents
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

// Package docstore keeps dashboard documents with a linear revision history.
//
// Every Save appends a revision holding the full document text, the script
// that produced it and the run diagnostics. Undo moves the head back one
// revision; the next Save discards the undone revisions.
package docstore

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/internal/dsl/executor"
)

// Document is a stored dashboard with the text of its head revision
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Head      int       `json:"head"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Revision is one saved state of a document
type Revision struct {
	DocID       string                `json:"doc_id"`
	Number      int                   `json:"number"`
	Parent      int                   `json:"parent,omitempty"`
	Code        string                `json:"code"`
	Script      string                `json:"script,omitempty"`
	Diagnostics []executor.Diagnostic `json:"diagnostics,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Store persists documents and their revisions
type Store interface {
	Create(ctx context.Context, title, code string) (*Document, error)
	Get(ctx context.Context, id string) (*Document, error)
	Save(ctx context.Context, rev *Revision) error
	History(ctx context.Context, id string, limit int) ([]Revision, error)
	Undo(ctx context.Context, id string) (*Document, error)
	Close() error
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
	// HistoryLimit caps the revisions kept per document. Zero keeps all.
	HistoryLimit int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path:         "./data/dashscript.db",
		HistoryLimit: 50,
	}
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db    *sql.DB
	mu    sync.RWMutex
	limit int
}

var _ Store = (*SQLiteStore)(nil)

// Open opens or creates the store at cfg.Path
func Open(cfg Config) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, storeErr(err, "docstore.Open", "failed to create directory").WithDetail("path", cfg.Path)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, storeErr(err, "docstore.Open", "failed to open database").WithDetail("path", cfg.Path)
	}

	s := &SQLiteStore{db: db, limit: cfg.HistoryLimit}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, storeErr(err, "docstore.Open", "failed to initialize schema")
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		head INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS revisions (
		doc_id TEXT NOT NULL,
		number INTEGER NOT NULL,
		code TEXT NOT NULL,
		script TEXT NOT NULL DEFAULT '',
		diagnostics BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (doc_id, number),
		FOREIGN KEY (doc_id) REFERENCES documents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_documents_updated ON documents(updated_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Create stores a new document whose first revision is code
func (s *SQLiteStore) Create(ctx context.Context, title, code string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	doc := &Document{
		ID:        uuid.New().String(),
		Title:     title,
		Head:      1,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, title, head, created_at, updated_at)
			VALUES (?, ?, 1, ?, ?)
		`, doc.ID, doc.Title, now, now); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO revisions (doc_id, number, code, created_at)
			VALUES (?, 1, ?, ?)
		`, doc.ID, code, now)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "docstore.Create", "failed to create document")
	}
	return doc, nil
}

// Get returns a document at its head revision
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.title, d.head, r.code, d.created_at, d.updated_at
		FROM documents d JOIN revisions r ON r.doc_id = d.id AND r.number = d.head
		WHERE d.id = ?
	`, id)

	var doc Document
	var head int64
	if err := row.Scan(&doc.ID, &doc.Title, &head, &doc.Code, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(id, "docstore.Get")
		}
		return nil, storeErr(err, "docstore.Get", "failed to get document").WithDetail("id", id)
	}
	n, err := safecast.Conv[int](head)
	if err != nil {
		return nil, storeErr(err, "docstore.Get", "revision number out of range").WithDetail("id", id)
	}
	doc.Head = n
	return &doc, nil
}

// Save appends rev after the head of rev.DocID and makes it the new head.
// A non-zero rev.Parent must equal the current head, else the save fails
// with CodeConflict. Revisions past the head (undone ones) are discarded.
func (s *SQLiteStore) Save(ctx context.Context, rev *Revision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := encodeDiagnostics(rev.Diagnostics)
	if err != nil {
		return storeErr(err, "docstore.Save", "failed to encode diagnostics")
	}

	now := time.Now().UTC()
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		head, err := headOf(ctx, tx, rev.DocID)
		if err != nil {
			return err
		}
		if rev.Parent != 0 && rev.Parent != head {
			return mdwerror.Newf("document %s moved: head is %d, saving on %d", rev.DocID, head, rev.Parent).
				WithCode(mdwerror.CodeConflict).
				WithDetail("id", rev.DocID).
				WithDetail("head", head).
				WithDetail("parent", rev.Parent)
		}

		next := head + 1
		if _, err := tx.ExecContext(ctx, `DELETE FROM revisions WHERE doc_id = ? AND number > ?`, rev.DocID, head); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO revisions (doc_id, number, code, script, diagnostics, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rev.DocID, next, rev.Code, rev.Script, blob, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE documents SET head = ?, updated_at = ? WHERE id = ?`, next, now, rev.DocID); err != nil {
			return err
		}
		if s.limit > 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM revisions WHERE doc_id = ? AND number <= ?`, rev.DocID, next-s.limit); err != nil {
				return err
			}
		}

		rev.Parent = head
		rev.Number = next
		rev.CreatedAt = now
		return nil
	})
	if err != nil {
		return storeErr(err, "docstore.Save", "failed to save revision").WithDetail("id", rev.DocID)
	}
	return nil
}

// History returns up to limit revisions up to the head, newest first. A
// limit of zero returns all of them.
func (s *SQLiteStore) History(ctx context.Context, id string, limit int) ([]Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	head, err := headOf(ctx, s.db, id)
	if err != nil {
		return nil, storeErr(err, "docstore.History", "failed to read history").WithDetail("id", id)
	}

	query := `
		SELECT number, code, script, diagnostics, created_at
		FROM revisions WHERE doc_id = ? AND number <= ?
		ORDER BY number DESC`
	args := []any{id, head}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "docstore.History", "failed to read history").WithDetail("id", id)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			rev    Revision
			number int64
			blob   []byte
		)
		if err := rows.Scan(&number, &rev.Code, &rev.Script, &blob, &rev.CreatedAt); err != nil {
			return nil, storeErr(err, "docstore.History", "failed to scan revision").WithDetail("id", id)
		}
		if rev.Number, err = safecast.Conv[int](number); err != nil {
			return nil, storeErr(err, "docstore.History", "revision number out of range").WithDetail("id", id)
		}
		if rev.Diagnostics, err = decodeDiagnostics(blob); err != nil {
			return nil, storeErr(err, "docstore.History", "failed to decode diagnostics").WithDetail("id", id)
		}
		rev.DocID = id
		if rev.Number > 1 {
			rev.Parent = rev.Number - 1
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "docstore.History", "failed to read history").WithDetail("id", id)
	}
	return out, nil
}

// Undo moves the head of id back to the previous retained revision
func (s *SQLiteStore) Undo(ctx context.Context, id string) (*Document, error) {
	s.mu.Lock()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		head, err := headOf(ctx, tx, id)
		if err != nil {
			return err
		}
		var prev sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(number) FROM revisions WHERE doc_id = ? AND number < ?`, id, head,
		).Scan(&prev); err != nil {
			return err
		}
		if !prev.Valid {
			return mdwerror.Newf("nothing to undo for document %s", id).
				WithCode(mdwerror.CodeConflict).
				WithDetail("id", id).
				WithDetail("head", head)
		}
		_, err = tx.ExecContext(ctx, `UPDATE documents SET head = ?, updated_at = ? WHERE id = ?`,
			prev.Int64, time.Now().UTC(), id)
		return err
	})
	s.mu.Unlock()
	if err != nil {
		return nil, storeErr(err, "docstore.Undo", "failed to undo").WithDetail("id", id)
	}
	return s.Get(ctx, id)
}

// Ping checks that the database answers
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func headOf(ctx context.Context, q querier, id string) (int, error) {
	var head int64
	err := q.QueryRowContext(ctx, `SELECT head FROM documents WHERE id = ?`, id).Scan(&head)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, notFound(id, "docstore.head")
	}
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](head)
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func notFound(id, op string) *mdwerror.Error {
	return mdwerror.Newf("document %s not found", id).
		WithCode(mdwerror.CodeNotFound).
		WithOperation(op).
		WithDetail("id", id)
}

// storeErr wraps err with CodeStorage unless it already carries a code
func storeErr(err error, op, msg string) *mdwerror.Error {
	e := mdwerror.Wrap(err, msg).WithOperation(op)
	if e.Code() == mdwerror.CodeUnknown {
		e = e.WithCode(mdwerror.CodeStorage)
	}
	return e
}
