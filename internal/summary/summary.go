// Package summary derives the kitchen-facing order counts from a week.
package summary

import (
	"sort"

	"github.com/mknorr/kantine/internal/models"
)

// Line is the order count for one meal number on one day, with a
// representative dish name for display.
type Line struct {
	Day    string `json:"day"`
	Number string `json:"number"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

// Kitchen aggregates, per day and meal number, how many participants
// ordered it. Purely derived from the week's orders; recomputed on
// every call. Lines come out in weekday order, numbers sorted within
// a day, so the result is stable regardless of map iteration.
func Kitchen(week *models.Week) []Line {
	if week == nil {
		return nil
	}

	// Participant names sorted first so the representative dish name is
	// deterministic when duplicate numbers carry different names.
	names := make([]string, 0, len(week.Orders))
	for name := range week.Orders {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []Line
	for _, day := range models.Weekdays {
		counts := make(map[string]*Line)
		var numbers []string
		for _, name := range names {
			meal, ok := week.Orders[name][day]
			if !ok {
				continue
			}
			line := counts[meal.Number]
			if line == nil {
				line = &Line{Day: day, Number: meal.Number, Name: meal.Name}
				counts[meal.Number] = line
				numbers = append(numbers, meal.Number)
			}
			line.Count++
		}
		sort.Strings(numbers)
		for _, number := range numbers {
			lines = append(lines, *counts[number])
		}
	}
	return lines
}
