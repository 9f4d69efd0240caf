package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mknorr/kantine/internal/models"
	"github.com/mknorr/kantine/internal/storage"
)

type fakeRemote struct {
	mu        sync.Mutex
	record    *storage.Record
	fetchErr  error
	createErr error
	updateErr error
	updates   int
	creates   int
}

func (f *fakeRemote) Fetch(ctx context.Context) (*storage.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.record == nil {
		return nil, storage.ErrNoRecord
	}
	return f.record, nil
}

func (f *fakeRemote) Create(ctx context.Context, state *models.AppState) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.creates++
	f.record = &storage.Record{ID: "rec1", State: state}
	return "rec1", nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, state *models.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.record == nil || f.record.ID != id {
		return storage.ErrNoRecord
	}
	f.updates++
	f.record.State = state
	return nil
}

func (f *fakeRemote) counts() (creates, updates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates
}

type fakeLocal struct {
	mu    sync.Mutex
	state *models.AppState
	saves int
}

func (f *fakeLocal) Load(ctx context.Context) (*models.AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == nil {
		return nil, storage.ErrNoSnapshot
	}
	return f.state, nil
}

func (f *fakeLocal) Save(ctx context.Context, state *models.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
	f.saves++
	return nil
}

func (f *fakeLocal) Close() error { return nil }

func stateWithOrder(name string) *models.AppState {
	state := models.NewAppState()
	state.Current.Orders[name] = map[string]models.Meal{
		"Montag": {Number: "1", Name: "Suppe", Price: "3,50"},
	}
	return state
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts remote state and goes online", func(t *testing.T) {
		remote := &fakeRemote{record: &storage.Record{ID: "rec1", State: stateWithOrder("Ana")}}
		c := New(remote, &fakeLocal{}, time.Hour)

		state := c.Load(ctx)
		if _, ok := state.Current.Orders["Ana"]; !ok {
			t.Error("remote state not adopted")
		}
		if !c.Online() {
			t.Error("expected online after remote load")
		}
	})

	t.Run("falls back to local snapshot on remote failure", func(t *testing.T) {
		remote := &fakeRemote{fetchErr: errors.New("connection refused")}
		local := &fakeLocal{state: stateWithOrder("Ben")}
		c := New(remote, local, time.Hour)

		state := c.Load(ctx)
		if _, ok := state.Current.Orders["Ben"]; !ok {
			t.Error("local snapshot not adopted")
		}
		if c.Online() {
			t.Error("expected offline after remote failure")
		}
	})

	t.Run("empty everywhere yields the initial state", func(t *testing.T) {
		remote := &fakeRemote{}
		c := New(remote, &fakeLocal{}, time.Hour)

		state := c.Load(ctx)
		if len(state.Current.Meals) != 0 || len(state.Current.Orders) != 0 || state.Previous != nil {
			t.Errorf("initial state not empty: %+v", state)
		}
	})
}

func TestStateChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the local snapshot synchronously", func(t *testing.T) {
		local := &fakeLocal{}
		c := New(nil, local, time.Hour)

		c.StateChanged(stateWithOrder("Ana"))
		if local.saves != 1 {
			t.Errorf("local saves = %d, want 1", local.saves)
		}
	})

	t.Run("coalesces a burst into one remote write with the latest state", func(t *testing.T) {
		remote := &fakeRemote{record: &storage.Record{ID: "rec1", State: models.NewAppState()}}
		local := &fakeLocal{}
		c := New(remote, local, time.Hour)
		c.Load(ctx)

		c.StateChanged(stateWithOrder("Ana"))
		c.StateChanged(stateWithOrder("Ben"))
		c.StateChanged(stateWithOrder("Cem"))

		// Nothing reaches the remote before the debounce window closes.
		if _, updates := remote.counts(); updates != 0 {
			t.Fatalf("remote updated before flush: %d", updates)
		}
		if local.saves != 3 {
			t.Errorf("local saves = %d, want 3", local.saves)
		}

		c.Flush(ctx)

		_, updates := remote.counts()
		if updates != 1 {
			t.Fatalf("remote updates = %d, want 1", updates)
		}
		if _, ok := remote.record.State.Current.Orders["Cem"]; !ok {
			t.Error("remote missing the latest state")
		}
		if !c.Online() {
			t.Error("expected online after successful sync")
		}
	})

	t.Run("debounce timer fires on its own", func(t *testing.T) {
		remote := &fakeRemote{record: &storage.Record{ID: "rec1", State: models.NewAppState()}}
		c := New(remote, &fakeLocal{}, 10*time.Millisecond)
		c.Load(ctx)

		c.StateChanged(stateWithOrder("Ana"))

		deadline := time.Now().Add(2 * time.Second)
		for {
			if _, updates := remote.counts(); updates == 1 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("debounced sync never fired")
			}
			time.Sleep(5 * time.Millisecond)
		}
	})

	t.Run("creates the record when none exists", func(t *testing.T) {
		remote := &fakeRemote{}
		c := New(remote, &fakeLocal{}, time.Hour)
		c.Load(ctx)

		c.StateChanged(stateWithOrder("Ana"))
		c.Flush(ctx)

		creates, updates := remote.counts()
		if creates != 1 || updates != 0 {
			t.Errorf("creates = %d, updates = %d, want 1 create", creates, updates)
		}
		if !c.Online() {
			t.Error("expected online after create")
		}

		// Next sync updates the record it just created.
		c.StateChanged(stateWithOrder("Ben"))
		c.Flush(ctx)
		creates, updates = remote.counts()
		if creates != 1 || updates != 1 {
			t.Errorf("creates = %d, updates = %d, want 1 and 1", creates, updates)
		}
	})

	t.Run("exhausting update and create goes offline", func(t *testing.T) {
		remote := &fakeRemote{
			fetchErr:  errors.New("connection refused"),
			createErr: errors.New("connection refused"),
		}
		local := &fakeLocal{}
		c := New(remote, local, time.Hour)

		c.StateChanged(stateWithOrder("Ana"))
		c.Flush(ctx)

		if c.Online() {
			t.Error("expected offline after failed sync")
		}
		// The local edit survives regardless.
		if local.saves != 1 {
			t.Errorf("local saves = %d, want 1", local.saves)
		}
	})

	t.Run("recreates a record that vanished remotely", func(t *testing.T) {
		remote := &fakeRemote{record: &storage.Record{ID: "rec1", State: models.NewAppState()}}
		c := New(remote, &fakeLocal{}, time.Hour)
		c.Load(ctx)

		// Record deleted by someone else between syncs.
		remote.mu.Lock()
		remote.record = nil
		remote.mu.Unlock()

		c.StateChanged(stateWithOrder("Ana"))
		c.Flush(ctx)

		creates, _ := remote.counts()
		if creates != 1 {
			t.Errorf("creates = %d, want 1", creates)
		}
		if !c.Online() {
			t.Error("expected online after recreate")
		}
	})
}
