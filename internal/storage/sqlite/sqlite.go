// Package sqlite provides a SQLite-backed implementation of the
// storage.SnapshotStore interface, the local durability floor for the
// planner state.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mknorr/kantine/internal/models"
	"github.com/mknorr/kantine/internal/storage"
)

// Ensure SQLiteStore implements storage.SnapshotStore
var _ storage.SnapshotStore = (*SQLiteStore)(nil)

// Snapshot keys. Earlier revisions stored the week maps under two
// separate keys; Load still reads those when no combined snapshot exists.
const (
	stateKey        = "appstate"
	legacyMealsKey  = "meals"
	legacyOrdersKey = "orders"
)

// SQLiteStore implements storage.SnapshotStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save overwrites the snapshot with the given state.
func (s *SQLiteStore) Save(ctx context.Context, state *models.AppState) error {
	content, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, content, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		stateKey, string(content), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Load reads the last snapshot. When no combined snapshot exists it
// falls back to the split meals/orders keys written by earlier
// revisions, and returns storage.ErrNoSnapshot when those are absent too.
func (s *SQLiteStore) Load(ctx context.Context) (*models.AppState, error) {
	content, err := s.read(ctx, stateKey)
	if err == nil {
		return storage.DecodeContent([]byte(content))
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return s.loadLegacy(ctx)
}

func (s *SQLiteStore) loadLegacy(ctx context.Context) (*models.AppState, error) {
	state := models.NewAppState()
	found := false

	if content, err := s.read(ctx, legacyMealsKey); err == nil {
		if err := json.Unmarshal([]byte(content), &state.Current.Meals); err != nil {
			return nil, fmt.Errorf("failed to decode legacy meals: %w", err)
		}
		found = true
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read legacy meals: %w", err)
	}

	if content, err := s.read(ctx, legacyOrdersKey); err == nil {
		if err := json.Unmarshal([]byte(content), &state.Current.Orders); err != nil {
			return nil, fmt.Errorf("failed to decode legacy orders: %w", err)
		}
		found = true
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read legacy orders: %w", err)
	}

	if !found {
		return nil, storage.ErrNoSnapshot
	}
	state.Normalize()
	return state, nil
}

func (s *SQLiteStore) read(ctx context.Context, key string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		"SELECT content FROM snapshots WHERE key = ?", key,
	).Scan(&content)
	return content, err
}
