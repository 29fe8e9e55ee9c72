// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive maintains a queryable SQLite index of processed
// articles. The flat tracking file remains the authoritative record of
// completion; the archive is a best-effort secondary index used by the
// status and archive commands.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdfifier/pkg/types"
)

// Store manages the article archive database.
type Store struct {
	db *sql.DB
}

// Entry is one archived article record.
type Entry struct {
	URL         string
	Title       string
	PDFPath     string
	ImageCount  int
	ProcessedAt time.Time
}

// Open opens or creates the archive database at path, creating the
// parent directory and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	s := &Store{db: db}
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
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS articles (
		url TEXT PRIMARY KEY,
		title TEXT,
		pdf_path TEXT,
		image_count INTEGER,
		processed_at TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record upserts the archive entry for article. Reprocessing a URL (the
// at-least-once case) replaces the previous record.
func (s *Store) Record(article *types.Article, pdfPath string, processedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO articles (url, title, pdf_path, image_count, processed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			title=excluded.title, pdf_path=excluded.pdf_path,
			image_count=excluded.image_count, processed_at=excluded.processed_at`,
		article.URL, article.Title, pdfPath, len(article.Images),
		processedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", article.URL, err)
	}
	return nil
}

// Get returns the entry for url, or sql.ErrNoRows if it is not archived.
func (s *Store) Get(url string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT url, title, pdf_path, image_count, processed_at FROM articles WHERE url = ?`, url)
	return scanEntry(row)
}

// List returns all entries ordered by processing time, oldest first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT url, title, pdf_path, image_count, processed_at FROM articles ORDER BY processed_at, url`)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archive rows: %w", err)
	}
	return entries, nil
}

// Count returns the number of archived articles.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting archive rows: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var processedAt string
	if err := row.Scan(&e.URL, &e.Title, &e.PDFPath, &e.ImageCount, &processedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning archive row: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, processedAt); err == nil {
		e.ProcessedAt = t
	}
	return &e, nil
}
