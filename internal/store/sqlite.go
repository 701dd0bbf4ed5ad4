package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"todolist/internal/models"
)

// SQLiteStore implements the Store interface using SQLite. Entries of all
// hashes share one table and are partitioned by hash key.
type SQLiteStore struct {
	db      *sql.DB
	hashKey string
}

// NewSQLiteStore opens the database at dbPath and migrates its schema.
func NewSQLiteStore(ctx context.Context, dbPath, hashKey string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db, hashKey: hashKey}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Set inserts or replaces the value stored under id.
func (s *SQLiteStore) Set(ctx context.Context, id, text string) error {
	now := time.Now()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hash_entries (hash_key, field, value, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (hash_key, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, s.hashKey, id, text, now, now)
	if err != nil {
		return fmt.Errorf("failed to set entry: %w", err)
	}

	return nil
}

// All retrieves every entry of the hash.
func (s *SQLiteStore) All(ctx context.Context) (models.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT field, value FROM hash_entries WHERE hash_key = ?
	`, s.hashKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := make(models.Collection)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries[field] = value
	}

	return entries, rows.Err()
}

// Delete removes the entry for id if it exists.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM hash_entries WHERE hash_key = ? AND field = ?`, s.hashKey, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
