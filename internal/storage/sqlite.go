// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/busca/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
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

	return &SQLiteStorage{db: db, path: dbPath}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		row_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		item_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		link TEXT,
		price TEXT,
		image TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		featured INTEGER NOT NULL DEFAULT 1,
		imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_items_position ON items(position);
	`
	_, err := db.Exec(schema)
	return err
}

// ReplaceItems deletes the stored catalog and inserts items in one transaction.
// Item ids are optional, so every row gets its own generated key.
func (s *SQLiteStorage) ReplaceItems(ctx context.Context, items []models.CatalogItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (row_id, position, item_id, name, link, price, image, description, featured, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for i := range items {
		it := &items[i]
		var link, price sql.NullString
		if it.Link != nil {
			link = sql.NullString{String: *it.Link, Valid: true}
		}
		if len(it.Price) > 0 {
			price = sql.NullString{String: string(it.Price), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(), i, it.ID, it.Name, link, price, it.Image, it.Description, it.Featured, now,
		); err != nil {
			return fmt.Errorf("failed to insert item %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListItems returns all stored items ordered by their import position.
func (s *SQLiteStorage) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, name, link, price, image, description, featured
		 FROM items ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		var (
			it          models.CatalogItem
			link, price sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Name, &link, &price, &it.Image, &it.Description, &it.Featured); err != nil {
			return nil, err
		}
		if link.Valid {
			l := link.String
			it.Link = &l
		}
		if price.Valid {
			it.Price = []byte(price.String)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountItems returns the number of stored items.
func (s *SQLiteStorage) CountItems(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}

// Fetch lets the database serve as a catalog source.
func (s *SQLiteStorage) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStorage) String() string {
	return "sqlite:" + s.path
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
