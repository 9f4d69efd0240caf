package models

import (
	"encoding/json"
	"fmt"
)

// Price is the raw price text exactly as the operator entered it,
// e.g. "3,50" or "4.00". Data from earlier revisions may carry prices
// as JSON numbers, so decoding accepts both forms and keeps the literal.
type Price string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or a number: %w", err)
	}
	*p = Price(n.String())
	return nil
}

// Meal represents one offering on a weekday's menu.
type Meal struct {
	// Number is the participant-facing menu number used when ordering.
	// It is only meaningful within one day's menu and is not required
	// to be unique; lookups resolve to the first match.
	Number string `json:"number"`

	// Name is the display name of the dish.
	Name string `json:"name"`

	// Price is the raw price text as entered.
	Price Price `json:"price"`
}
