package storage

import (
	"encoding/json"
	"fmt"

	"github.com/mknorr/kantine/internal/models"
)

// DecodeContent parses a persisted content blob into an AppState.
// Current data has the {current, previous} shape; records written by
// earlier revisions carry {meals, orders} directly and are adopted as
// the current week.
func DecodeContent(data []byte) (*models.AppState, error) {
	var raw struct {
		Current  *models.Week                      `json:"current"`
		Previous *models.Week                      `json:"previous"`
		Meals    map[string][]models.Meal          `json:"meals"`
		Orders   map[string]map[string]models.Meal `json:"orders"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode persisted state: %w", err)
	}

	state := models.NewAppState()
	if raw.Current != nil {
		state.Current = raw.Current
		state.Previous = raw.Previous
	} else {
		if raw.Meals != nil {
			state.Current.Meals = raw.Meals
		}
		if raw.Orders != nil {
			state.Current.Orders = raw.Orders
		}
	}
	state.Normalize()
	return state, nil
}
