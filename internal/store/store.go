// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists local documents in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/drivenote/pkg/types"
)

const (
	dbFile = "drivenote.db"
	// timeLayout is fixed width so timestamps sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when no document matches the id (and user, where
// one is given).
var ErrNotFound = errors.New("document not found")

// ErrInvalid is returned when a required field is empty.
var ErrInvalid = errors.New("invalid document")

// Store manages the documents database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Patch lists the fields an update changes. Nil fields are left alone.
type Patch struct {
	Title   *string
	Content *string
	IsDraft *bool
}

// Open opens or creates dataDir/drivenote.db and its schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.DataDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			is_draft INTEGER NOT NULL DEFAULT 0,
			remote_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Create inserts a new document owned by userID. Title and content are required.
func (s *Store) Create(ctx context.Context, userID, title, content string, isDraft bool) (types.Document, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(title) == "" || content == "" {
		return types.Document{}, fmt.Errorf("%w: user, title and content are required", ErrInvalid)
	}

	now := s.now().UTC()
	doc := types.Document{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		IsDraft:   isDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, user_id, title, content, is_draft, remote_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, '', ?, ?)`,
		doc.ID, doc.UserID, doc.Title, doc.Content, doc.IsDraft,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return types.Document{}, fmt.Errorf("inserting document: %w", err)
	}
	return doc, nil
}

// Get returns the document with the given id regardless of owner.
func (s *Store) Get(ctx context.Context, id string) (types.Document, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	return scanDocument(row)
}

// GetForUser returns the document only if userID owns it.
func (s *Store) GetForUser(ctx context.Context, id, userID string) (types.Document, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ? AND user_id = ?`, id, userID)
	return scanDocument(row)
}

// List returns every document owned by userID, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]types.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []types.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Update applies p to the document if userID owns it and returns the result.
func (s *Store) Update(ctx context.Context, id, userID string, p Patch) (types.Document, error) {
	doc, err := s.GetForUser(ctx, id, userID)
	if err != nil {
		return types.Document{}, err
	}
	if p.Title != nil {
		doc.Title = *p.Title
	}
	if p.Content != nil {
		doc.Content = *p.Content
	}
	if p.IsDraft != nil {
		doc.IsDraft = *p.IsDraft
	}
	doc.UpdatedAt = s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET title = ?, content = ?, is_draft = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		doc.Title, doc.Content, doc.IsDraft, formatTime(doc.UpdatedAt), id, userID,
	)
	if err != nil {
		return types.Document{}, fmt.Errorf("updating document: %w", err)
	}
	if err := requireOneRow(res); err != nil {
		return types.Document{}, err
	}
	return doc, nil
}

// Delete removes the document if userID owns it.
func (s *Store) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return requireOneRow(res)
}

// SetRemoteID records the Drive file id of the document's synced copy.
func (s *Store) SetRemoteID(ctx context.Context, id, remoteID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET remote_id = ?, updated_at = ? WHERE id = ?`,
		remoteID, formatTime(s.now().UTC()), id,
	)
	if err != nil {
		return fmt.Errorf("saving remote id: %w", err)
	}
	return requireOneRow(res)
}

// Touch bumps updated_at.
func (s *Store) Touch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET updated_at = ? WHERE id = ?`, formatTime(s.now().UTC()), id)
	if err != nil {
		return fmt.Errorf("touching document: %w", err)
	}
	return requireOneRow(res)
}

// ExportYAML writes every document owned by userID to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, userID string, w io.Writer) error {
	docs, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

const selectColumns = `SELECT id, user_id, title, content, is_draft, remote_id, created_at, updated_at FROM documents`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (types.Document, error) {
	var (
		doc                  types.Document
		createdAt, updatedAt string
	)
	err := row.Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.Content, &doc.IsDraft,
		&doc.RemoteID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, ErrNotFound
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("scanning document: %w", err)
	}
	doc.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	doc.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return doc, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}
