package models

import (
	"encoding/json"
	"testing"
)

func TestPriceUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Price
	}{
		{name: "string price", data: `"3,50"`, want: "3,50"},
		{name: "number price", data: `3.5`, want: "3.5"},
		{name: "integer price", data: `4`, want: "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			if err := json.Unmarshal([]byte(tt.data), &p); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.data, err)
			}
			if p != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.data, p, tt.want)
			}
		})
	}

	t.Run("rejects other types", func(t *testing.T) {
		var p Price
		if err := json.Unmarshal([]byte(`[1]`), &p); err == nil {
			t.Error("expected error for array price")
		}
	})
}

func TestWeekClone(t *testing.T) {
	w := NewWeek()
	w.Meals["Montag"] = []Meal{{Number: "1", Name: "Suppe", Price: "3,50"}}
	w.Orders["Ana"] = map[string]Meal{
		"Montag": {Number: "1", Name: "Suppe", Price: "3,50"},
	}

	c := w.Clone()
	c.Meals["Montag"][0].Name = "Changed"
	c.Meals["Dienstag"] = []Meal{{Number: "9", Name: "Neu", Price: "1"}}
	c.Orders["Ana"]["Dienstag"] = Meal{Number: "9", Name: "Neu", Price: "1"}
	delete(c.Orders, "Ana")

	if w.Meals["Montag"][0].Name != "Suppe" {
		t.Error("clone mutation leaked into original menu")
	}
	if _, ok := w.Meals["Dienstag"]; ok {
		t.Error("clone day addition leaked into original menu")
	}
	if _, ok := w.Orders["Ana"]; !ok {
		t.Error("clone deletion leaked into original orders")
	}
	if len(w.Orders["Ana"]) != 1 {
		t.Errorf("original order has %d days, want 1", len(w.Orders["Ana"]))
	}
}

func TestAppStateNormalize(t *testing.T) {
	var s AppState
	if err := json.Unmarshal([]byte(`{"current":{"meals":null,"orders":null}}`), &s); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	s.Normalize()

	if s.Current == nil || s.Current.Meals == nil || s.Current.Orders == nil {
		t.Error("Normalize left nil maps in current week")
	}
	if s.Previous != nil {
		t.Error("Normalize invented a previous week")
	}
}
