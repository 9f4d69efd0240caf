// Package planner implements the in-memory week state machine: menu
// edits, order placement and removal, and the current/previous rollover.
//
// The planner owns the authoritative AppState for the running session.
// Every read hands out a deep copy, and every successful mutation passes
// a deep-copied snapshot to the change hook, so no caller can alias the
// internal maps.
package planner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mknorr/kantine/internal/models"
)

var (
	// ErrMissingField rejects an action with a required input left empty.
	ErrMissingField = errors.New("required field is empty")

	// ErrUnknownDay rejects a day outside the fixed weekday set.
	ErrUnknownDay = errors.New("unknown weekday")

	// ErrMealNotFound rejects an order whose meal number does not appear
	// on that day's menu.
	ErrMealNotFound = errors.New("meal not found for day")
)

// Planner guards the session's AppState and applies all mutations.
type Planner struct {
	mu       sync.Mutex
	state    *models.AppState
	onChange func(*models.AppState)
}

// New creates a Planner seeded with the given state. A nil initial
// state starts an empty session.
func New(initial *models.AppState) *Planner {
	if initial == nil {
		initial = models.NewAppState()
	}
	initial.Normalize()
	return &Planner{state: initial}
}

// SetOnChange registers the hook invoked with a snapshot after every
// successful mutation. Must be called before the planner is shared.
func (p *Planner) SetOnChange(fn func(*models.AppState)) {
	p.onChange = fn
}

// State returns a deep copy of the full session state.
func (p *Planner) State() *models.AppState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Clone()
}

// AddMeal appends a meal to one day's menu. All three meal fields are
// required. Duplicate numbers are permitted; order lookup resolves to
// the first match.
func (p *Planner) AddMeal(day string, meal models.Meal) error {
	if !models.IsWeekday(day) {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	if meal.Number == "" || meal.Name == "" || meal.Price == "" {
		return fmt.Errorf("%w: meal needs number, name and price", ErrMissingField)
	}

	p.mu.Lock()
	p.state.Current.Meals[day] = append(p.state.Current.Meals[day], meal)
	snap := p.state.Clone()
	p.mu.Unlock()

	p.notify(snap)
	return nil
}

// RemoveMeal deletes the meal at the given position in a day's menu.
// An out-of-range index is a silent no-op. Existing orders keep their
// copy of the removed meal.
func (p *Planner) RemoveMeal(day string, index int) error {
	if !models.IsWeekday(day) {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}

	p.mu.Lock()
	menu := p.state.Current.Meals[day]
	if index < 0 || index >= len(menu) {
		p.mu.Unlock()
		return nil
	}
	p.state.Current.Meals[day] = append(menu[:index], menu[index+1:]...)
	if len(p.state.Current.Meals[day]) == 0 {
		delete(p.state.Current.Meals, day)
	}
	snap := p.state.Clone()
	p.mu.Unlock()

	p.notify(snap)
	return nil
}

// PlaceOrder records (or overwrites) one participant's selection for a
// day. The number must match a meal on that day's current menu; the
// matched meal is stored by value. Returns the chosen meal.
func (p *Planner) PlaceOrder(name, day, number string) (models.Meal, error) {
	if name == "" || number == "" {
		return models.Meal{}, fmt.Errorf("%w: name and meal number are required", ErrMissingField)
	}
	if !models.IsWeekday(day) {
		return models.Meal{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}

	p.mu.Lock()
	var meal models.Meal
	found := false
	for _, m := range p.state.Current.Meals[day] {
		if m.Number == number {
			meal = m
			found = true
			break
		}
	}
	if !found {
		p.mu.Unlock()
		return models.Meal{}, fmt.Errorf("%w: no meal %q on %s", ErrMealNotFound, number, day)
	}
	order := p.state.Current.Orders[name]
	if order == nil {
		order = make(map[string]models.Meal)
		p.state.Current.Orders[name] = order
	}
	order[day] = meal
	snap := p.state.Clone()
	p.mu.Unlock()

	p.notify(snap)
	return meal, nil
}

// RemoveOrder deletes one participant's selection for a day. Removing
// the last remaining day removes the participant entirely; there are
// never empty residual entries. Unknown name or day is a silent no-op.
func (p *Planner) RemoveOrder(name, day string) error {
	if !models.IsWeekday(day) {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}

	p.mu.Lock()
	order, ok := p.state.Current.Orders[name]
	if !ok {
		p.mu.Unlock()
		return nil
	}
	if _, ok := order[day]; !ok {
		p.mu.Unlock()
		return nil
	}
	delete(order, day)
	if len(order) == 0 {
		delete(p.state.Current.Orders, name)
	}
	snap := p.state.Clone()
	p.mu.Unlock()

	p.notify(snap)
	return nil
}

// RemoveParticipant drops a participant and all of their orders. The
// caller is responsible for having confirmed this destructive action.
func (p *Planner) RemoveParticipant(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrMissingField)
	}

	p.mu.Lock()
	if _, ok := p.state.Current.Orders[name]; !ok {
		p.mu.Unlock()
		return nil
	}
	delete(p.state.Current.Orders, name)
	snap := p.state.Clone()
	p.mu.Unlock()

	p.notify(snap)
	return nil
}

// ResetWeek archives the current week as previous and starts a fresh
// one. The archive is frozen: current is replaced wholesale, so no
// later edit can reach the archived maps. A second rollover discards
// the prior archive; only one level of history is kept. The caller is
// responsible for having confirmed this destructive action.
func (p *Planner) ResetWeek() {
	p.mu.Lock()
	p.state.Previous = p.state.Current
	p.state.Current = models.NewWeek()
	snap := p.state.Clone()
	p.mu.Unlock()

	p.notify(snap)
}

func (p *Planner) notify(snap *models.AppState) {
	if p.onChange != nil {
		p.onChange(snap)
	}
}
