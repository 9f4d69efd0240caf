// Package storage provides abstractions for persisting the planner state.
package storage

import (
	"context"
	"errors"

	"github.com/mknorr/kantine/internal/models"
)

// ErrNoRecord reports that the remote container holds no record yet.
var ErrNoRecord = errors.New("no remote record")

// ErrNoSnapshot reports that no local snapshot has been written yet.
var ErrNoSnapshot = errors.New("no local snapshot")

// Record is the single remote record holding the whole dataset.
type Record struct {
	ID    string
	State *models.AppState
}

// RemoteStore is the remote record container. The whole AppState lives
// in exactly one record; there is no per-week or per-user sharding.
// Any failure means "remote unavailable" and must never be fatal.
type RemoteStore interface {
	// Fetch retrieves the persisted record. Returns ErrNoRecord when
	// the container is empty.
	Fetch(ctx context.Context) (*Record, error)

	// Create stores a new record and returns its ID.
	Create(ctx context.Context, state *models.AppState) (string, error)

	// Update overwrites the record with the given ID wholesale.
	// Returns ErrNoRecord when that record no longer exists.
	Update(ctx context.Context, id string, state *models.AppState) error
}

// SnapshotStore is the local durability floor: a key-value snapshot of
// the serialized AppState, written synchronously on every change.
// This abstraction allows swapping the on-disk format without changing
// the sync coordinator.
type SnapshotStore interface {
	// Load reads the last snapshot. Returns ErrNoSnapshot when none
	// has been written.
	Load(ctx context.Context) (*models.AppState, error)

	// Save overwrites the snapshot with the given state.
	Save(ctx context.Context, state *models.AppState) error

	// Close releases any resources held by the store.
	Close() error
}
