// Package storage provides the SQLite implementation of the Store interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/shirushi/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		page_count INTEGER NOT NULL,
		size INTEGER NOT NULL,
		mod_time TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_documents_path ON documents(path);

	CREATE TABLE IF NOT EXISTS document_pages (
		document_id TEXT NOT NULL,
		page_index INTEGER NOT NULL,
		full_text TEXT NOT NULL,
		fragments TEXT NOT NULL,
		PRIMARY KEY (document_id, page_index)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// PutDocument stores doc and its pages in one transaction, replacing any
// previous extraction for the same ID.
func (s *SQLiteStore) PutDocument(ctx context.Context, doc *models.Document, pages []*models.PageContent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, path, page_count, size, mod_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Path, doc.PageCount, doc.Size, doc.ModTime, doc.CreatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM document_pages WHERE document_id = ?`, doc.ID,
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO document_pages (document_id, page_index, full_text, fragments)
		 VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, page := range pages {
		fragmentsJSON, err := json.Marshal(page.Fragments)
		if err != nil {
			return fmt.Errorf("failed to marshal fragments: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, page.PageIndex, page.FullText, string(fragmentsJSON)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetDocument returns a document by ID.
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT id, path, page_count, size, mod_time, created_at
		 FROM documents WHERE id = ?`, id,
	), id)
}

// GetDocumentByPath returns a document by its file path.
func (s *SQLiteStore) GetDocumentByPath(ctx context.Context, path string) (*models.Document, error) {
	return s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT id, path, page_count, size, mod_time, created_at
		 FROM documents WHERE path = ?`, path,
	), path)
}

func (s *SQLiteStore) scanDocument(row *sql.Row, key string) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(&doc.ID, &doc.Path, &doc.PageCount, &doc.Size, &doc.ModTime, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetPages returns the stored pages of a document ordered by page index.
func (s *SQLiteStore) GetPages(ctx context.Context, docID string) ([]*models.PageContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_index, full_text, fragments
		 FROM document_pages WHERE document_id = ? ORDER BY page_index`,
		docID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.PageContent
	for rows.Next() {
		var page models.PageContent
		var fragmentsJSON string
		if err := rows.Scan(&page.PageIndex, &page.FullText, &fragmentsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fragmentsJSON), &page.Fragments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fragments: %w", err)
		}
		pages = append(pages, &page)
	}
	return pages, rows.Err()
}

// DeleteDocument removes a document and its pages.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_pages WHERE document_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListDocuments returns documents with offset and limit.
func (s *SQLiteStore) ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, page_count, size, mod_time, created_at
		 FROM documents ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Path, &doc.PageCount, &doc.Size, &doc.ModTime, &doc.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the total number of stored documents.
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
