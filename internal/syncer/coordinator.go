// Package syncer keeps the planner state durable across sessions with a
// remote-first, local-fallback policy.
//
// On load it adopts the remote record when reachable, otherwise the
// local snapshot, otherwise the empty initial state. On every state
// change it writes the local snapshot synchronously, then schedules a
// debounced remote sync; a burst of edits inside the debounce window
// produces one remote write carrying the latest state only. Remote
// failures only ever downgrade the online flag; the local state is the
// source of truth for the running session.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mknorr/kantine/internal/models"
	"github.com/mknorr/kantine/internal/storage"
)

// DefaultDelay is the debounce window for remote syncs.
const DefaultDelay = 2 * time.Second

// Coordinator reconciles the in-memory state with remote and local
// persistence. A nil remote store means the session runs offline-only.
type Coordinator struct {
	remote storage.RemoteStore
	local  storage.SnapshotStore
	delay  time.Duration

	online atomic.Bool

	mu       sync.Mutex
	timer    *time.Timer
	pending  *models.AppState
	recordID string
}

// New creates a Coordinator. A delay of zero falls back to DefaultDelay.
func New(remote storage.RemoteStore, local storage.SnapshotStore, delay time.Duration) *Coordinator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Coordinator{remote: remote, local: local, delay: delay}
}

// Online reports whether the last remote operation succeeded.
func (c *Coordinator) Online() bool {
	return c.online.Load()
}

// Load resolves the startup state: remote record first, local snapshot
// on any remote failure, empty state when neither exists. Never fails;
// persistence trouble only shows up as online=false.
func (c *Coordinator) Load(ctx context.Context) *models.AppState {
	if c.remote != nil {
		rec, err := c.remote.Fetch(ctx)
		if err == nil {
			c.mu.Lock()
			c.recordID = rec.ID
			c.mu.Unlock()
			c.setOnline(true)
			slog.Info("Adopted remote state", "record_id", rec.ID)
			return rec.State
		}
		slog.Warn("Remote unavailable, falling back to local snapshot", "error", err)
	}
	c.setOnline(false)

	state, err := c.local.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			slog.Warn("Failed to load local snapshot", "error", err)
		}
		return models.NewAppState()
	}
	slog.Info("Loaded local snapshot")
	return state
}

// StateChanged persists a new state: local snapshot immediately, remote
// sync after the debounce window. Never blocks on the remote.
func (c *Coordinator) StateChanged(state *models.AppState) {
	if err := c.local.Save(context.Background(), state); err != nil {
		slog.Error("Failed to write local snapshot", "error", err)
	} else {
		snapshotWrites.Inc()
	}

	if c.remote == nil {
		return
	}

	c.mu.Lock()
	c.pending = state
	if c.timer == nil {
		c.timer = time.AfterFunc(c.delay, c.flushPending)
	} else {
		c.timer.Reset(c.delay)
	}
	c.mu.Unlock()
}

// Flush pushes any pending remote sync immediately. Used on shutdown
// and in tests; a no-op when nothing is pending.
func (c *Coordinator) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	state := c.pending
	c.pending = nil
	c.mu.Unlock()

	if state == nil || c.remote == nil {
		return
	}
	c.syncRemote(ctx, state)
}

func (c *Coordinator) flushPending() {
	c.mu.Lock()
	state := c.pending
	c.pending = nil
	c.mu.Unlock()

	if state == nil {
		return
	}
	c.syncRemote(context.Background(), state)
}

// syncRemote attempts update-existing first, then create. Either
// success marks the session online; exhausting both marks it offline.
func (c *Coordinator) syncRemote(ctx context.Context, state *models.AppState) {
	err := c.updateExisting(ctx, state)
	if err == nil {
		c.markSync(true)
		return
	}
	if !errors.Is(err, storage.ErrNoRecord) {
		slog.Warn("Remote update failed", "error", err)
		c.markSync(false)
		return
	}

	id, err := c.remote.Create(ctx, state)
	if err != nil {
		slog.Warn("Remote create failed", "error", err)
		c.markSync(false)
		return
	}
	c.mu.Lock()
	c.recordID = id
	c.mu.Unlock()
	c.markSync(true)
}

func (c *Coordinator) updateExisting(ctx context.Context, state *models.AppState) error {
	c.mu.Lock()
	id := c.recordID
	c.mu.Unlock()

	if id == "" {
		rec, err := c.remote.Fetch(ctx)
		if err != nil {
			return err
		}
		id = rec.ID
		c.mu.Lock()
		c.recordID = id
		c.mu.Unlock()
	}

	err := c.remote.Update(ctx, id, state)
	if errors.Is(err, storage.ErrNoRecord) {
		// Record vanished underneath us; forget the ID so the next
		// attempt recreates it.
		c.mu.Lock()
		c.recordID = ""
		c.mu.Unlock()
	}
	return err
}

func (c *Coordinator) markSync(ok bool) {
	if ok {
		syncAttempts.WithLabelValues("ok").Inc()
		slog.Debug("Remote sync succeeded")
	} else {
		syncAttempts.WithLabelValues("error").Inc()
	}
	c.setOnline(ok)
}

func (c *Coordinator) setOnline(ok bool) {
	c.online.Store(ok)
	if ok {
		onlineGauge.Set(1)
	} else {
		onlineGauge.Set(0)
	}
}
