// Package gallery persists generated images in a local SQLite database.
package gallery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/DuongTienDung77/Ultra8K/internal/image"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    hash TEXT NOT NULL UNIQUE,
    mime_type TEXT NOT NULL,
    data BLOB NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    metadata_json TEXT
);

CREATE INDEX IF NOT EXISTS idx_images_created_at ON images(created_at);
`

const fileName = "gallery.db"

var (
	ErrNotFound    = errors.New("gallery entry not found")
	ErrEmptyImage  = errors.New("cannot store an empty image")
	ErrStorageFull = errors.New("gallery storage is full")
)

type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore opens the gallery database inside dir.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	return NewStoreWithPath(filepath.Join(dir, fileName), logger)
}

// NewStoreWithPath opens the database at dbPath. A file that is not a usable
// gallery database is discarded and replaced by an empty one.
func NewStoreWithPath(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := open(dbPath)
	if err != nil {
		logger.Warn("gallery database unreadable, starting empty", "path", dbPath, "error", err)
		if rmErr := removeDatabase(dbPath); rmErr != nil {
			return nil, fmt.Errorf("failed to discard corrupt gallery: %w", rmErr)
		}
		db, err = open(dbPath)
		if err != nil {
			return nil, err
		}
	}

	return &Store{db: db, path: dbPath, logger: logger, now: time.Now}, nil
}

func open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; batch runs share the store.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM images`).Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read gallery: %w", err)
	}
	return db, nil
}

func removeDatabase(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-journal", dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.path
}

// Add stores the payload unless an identical one is already present. It
// reports whether a new entry was inserted.
func (s *Store) Add(ctx context.Context, p models.Payload, meta Metadata) (bool, error) {
	if p.IsEmpty() {
		return false, ErrEmptyImage
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO images (id, hash, mime_type, data, created_at, metadata_json)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO NOTHING`,
		uuid.New().String(), PayloadHash(p), p.MIMEType, p.Data, s.now(), meta.ToJSON())
	if err != nil {
		if isStorageFull(err) {
			return false, fmt.Errorf("%w: %v", ErrStorageFull, err)
		}
		return false, fmt.Errorf("failed to add image: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all entries, most recent first. Rows that do not hold a
// usable image are skipped.
func (s *Store) List(ctx context.Context) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mime_type, data, created_at, metadata_json
		 FROM images ORDER BY seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			s.logger.Warn("skipping unreadable gallery row", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry by ID or by a unique ID prefix.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, mime_type, data, created_at, metadata_json
		 FROM images WHERE id = ?`, id)
	if e, err := scanEntry(row); err == nil {
		return e, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mime_type, data, created_at, metadata_json
		 FROM images WHERE substr(id, 1, ?) = ? LIMIT 2`, len(id), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("ambiguous gallery id %q", id)
	}
}

// Remove deletes the entry holding an identical payload.
func (s *Store) Remove(ctx context.Context, p models.Payload) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE hash = ?`, PayloadHash(p))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveID deletes an entry by ID or unique ID prefix.
func (s *Store) RemoveID(ctx context.Context, id string) error {
	e, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, e.ID)
	return err
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM images`)
	return err
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM images`).Scan(&count)
	return count, err
}

// Export writes every entry into dir and returns the written paths.
func (s *Store) Export(ctx context.Context, saver *image.Saver, dir string) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, ExportFilename(e))
		if err := saver.Save(e.Image, path); err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", e.ID, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ExportFilename names an exported entry after its creation time and ID.
func ExportFilename(e *Entry) string {
	short := e.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s%d-%s.%s", image.FilenamePrefix, e.CreatedAt.UnixMilli(), short, e.Image.Extension())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	e := &Entry{}
	var metadataJSON sql.NullString
	if err := row.Scan(&e.ID, &e.Image.MIMEType, &e.Image.Data, &e.CreatedAt, &metadataJSON); err != nil {
		return nil, err
	}
	if e.Image.IsEmpty() || !e.Image.IsImage() {
		return nil, fmt.Errorf("entry %s holds no image", e.ID)
	}
	e.Metadata = ParseMetadata(metadataJSON.String)
	return e, nil
}

func isStorageFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || strings.Contains(err.Error(), "database or disk is full")
}
