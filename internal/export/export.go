// Package export renders read-only reports from a week of data: a
// plain-text summary for the notice board and a semicolon-delimited
// table that opens cleanly in spreadsheet software.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/transform"

	"github.com/mknorr/kantine/internal/billing"
	"github.com/mknorr/kantine/internal/models"
	"github.com/mknorr/kantine/internal/summary"
)

// german renders amounts with a comma decimal separator, matching how
// prices are entered and read locally.
var german = message.NewPrinter(language.German)

func amount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return german.Sprintf("%.2f", f)
}

// WriteReport writes the plain-text weekly report: the menu and order
// counts per day, then every participant's selection with totals.
func WriteReport(w io.Writer, week *models.Week) error {
	if week == nil {
		week = models.NewWeek()
	}

	if _, err := fmt.Fprintf(w, "Wochen-Speiseplan\n\n"); err != nil {
		return err
	}

	counts := make(map[string]map[string]int)
	for _, line := range summary.Kitchen(week) {
		if counts[line.Day] == nil {
			counts[line.Day] = make(map[string]int)
		}
		counts[line.Day][line.Number] = line.Count
	}

	for _, day := range models.Weekdays {
		menu := week.Meals[day]
		if len(menu) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n", day); err != nil {
			return err
		}
		for _, meal := range menu {
			line := fmt.Sprintf("  #%s %s (%s €)", meal.Number, meal.Name, amount(billing.Parse(meal.Price)))
			if n := counts[day][meal.Number]; n > 0 {
				line += fmt.Sprintf("  x%d", n)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintf(w, "\nBestellungen & Abrechnung\n"); err != nil {
		return err
	}

	names := make([]string, 0, len(week.Orders))
	for name := range week.Orders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s\n", name); err != nil {
			return err
		}
		order := week.Orders[name]
		for _, day := range models.Weekdays {
			meal, ok := order[day]
			if !ok {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %s: %s (%s €)\n", day, meal.Name, amount(billing.Parse(meal.Price))); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  Gesamt: %s €\n", amount(billing.UserTotal(order))); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nGesamtsumme: %s €\n", amount(billing.GrandTotal(week.Orders)))
	return err
}

// WriteCSV writes the kitchen summary as a semicolon-delimited table.
// The output starts with a UTF-8 byte-order mark so spreadsheet imports
// pick the right encoding.
func WriteCSV(w io.Writer, week *models.Week) error {
	bw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(bw)
	cw.Comma = ';'

	if err := cw.Write([]string{"Tag", "Nummer", "Gericht", "Anzahl"}); err != nil {
		return err
	}
	for _, line := range summary.Kitchen(week) {
		rec := []string{line.Day, line.Number, line.Name, strconv.Itoa(line.Count)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Close()
}
