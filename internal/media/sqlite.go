package media

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const catalogSchema = `CREATE TABLE IF NOT EXISTS media_items (
	key        TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	title      TEXT,
	alt        TEXT,
	image_src  TEXT,
	image_kind TEXT,
	poster     TEXT,
	PRIMARY KEY (key, position)
)`

// SQLiteSource reads items from a local media catalog database.
type SQLiteSource struct {
	db *sql.DB
}

// OpenSQLiteSource opens the catalog at path, creating the table if needed.
func OpenSQLiteSource(path string) (*SQLiteSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" catalogs alive and shared.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(catalogSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create catalog table: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put replaces the items stored under key.
func (s *SQLiteSource) Put(ctx context.Context, key string, items []RawItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM media_items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	for i, item := range items {
		var src, kind, poster sql.NullString
		if item.Image != nil {
			src = sql.NullString{String: item.Image.Src, Valid: true}
			kind = sql.NullString{String: string(item.Image.Kind), Valid: item.Image.Kind != ""}
			poster = sql.NullString{String: item.Image.Poster, Valid: item.Image.Poster != ""}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO media_items (key, position, title, alt, image_src, image_kind, poster)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			key, i, nullable(item.Title), nullable(item.Alt), src, kind, poster,
		)
		if err != nil {
			return fmt.Errorf("insert %s[%d]: %w", key, i, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteSource) Fetch(ctx context.Context, key string) ([]RawItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, alt, image_src, image_kind, poster
		   FROM media_items
		  WHERE key = ?
		  ORDER BY position`,
		key,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", key, err)
	}
	defer rows.Close()

	var items []RawItem
	for rows.Next() {
		var title, alt, src, kind, poster sql.NullString
		if err := rows.Scan(&title, &alt, &src, &kind, &poster); err != nil {
			return nil, fmt.Errorf("scan %s: %w", key, err)
		}
		item := RawItem{Title: fromNullable(title), Alt: fromNullable(alt)}
		if src.Valid {
			item.Image = &ImageRef{Src: src.String, Kind: Kind(kind.String), Poster: poster.String}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", key, err)
	}
	return items, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return String(ns.String)
}
