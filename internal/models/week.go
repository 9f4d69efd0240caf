package models

// Weekdays is the fixed, ordered set of days a week of data covers.
// The German names are part of the persisted data format.
var Weekdays = []string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag"}

// IsWeekday reports whether day is one of the five known weekdays.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// Week holds one week of planner data: the menu per weekday and every
// participant's per-day selection.
type Week struct {
	// Meals maps a weekday to its menu, in insertion order.
	Meals map[string][]Meal `json:"meals"`

	// Orders maps a participant name to that person's per-day selection.
	// A participant key exists only while at least one day is ordered.
	Orders map[string]map[string]Meal `json:"orders"`
}

// NewWeek returns an empty week with initialized maps.
func NewWeek() *Week {
	return &Week{
		Meals:  make(map[string][]Meal),
		Orders: make(map[string]map[string]Meal),
	}
}

// Clone returns a deep copy sharing no maps or slices with the receiver.
func (w *Week) Clone() *Week {
	if w == nil {
		return nil
	}
	c := NewWeek()
	for day, menu := range w.Meals {
		c.Meals[day] = append([]Meal(nil), menu...)
	}
	for name, order := range w.Orders {
		oc := make(map[string]Meal, len(order))
		for day, meal := range order {
			oc[day] = meal
		}
		c.Orders[name] = oc
	}
	return c
}

// normalize fills in maps left nil by JSON decoding.
func (w *Week) normalize() {
	if w.Meals == nil {
		w.Meals = make(map[string][]Meal)
	}
	if w.Orders == nil {
		w.Orders = make(map[string]map[string]Meal)
	}
}

// AppState is the root aggregate persisted wholesale: the current week
// and at most one archived predecessor.
type AppState struct {
	Current *Week `json:"current"`

	// Previous is the archived week from the last rollover, read-only
	// once set. Nil until the first rollover.
	Previous *Week `json:"previous,omitempty"`
}

// NewAppState returns the initial state: an empty current week, no archive.
func NewAppState() *AppState {
	return &AppState{Current: NewWeek()}
}

// Clone returns a deep copy of the whole state.
func (s *AppState) Clone() *AppState {
	if s == nil {
		return nil
	}
	return &AppState{
		Current:  s.Current.Clone(),
		Previous: s.Previous.Clone(),
	}
}

// Normalize repairs a state decoded from JSON so that every map is
// non-nil and a current week always exists.
func (s *AppState) Normalize() {
	if s.Current == nil {
		s.Current = NewWeek()
	}
	s.Current.normalize()
	if s.Previous != nil {
		s.Previous.normalize()
	}
}
