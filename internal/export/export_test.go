package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mknorr/kantine/internal/models"
)

func demoWeek() *models.Week {
	week := models.NewWeek()
	week.Meals["Montag"] = []models.Meal{
		{Number: "1", Name: "Suppe", Price: "3,50"},
		{Number: "2", Name: "Salat", Price: "4.00"},
	}
	week.Orders = map[string]map[string]models.Meal{
		"Ana": {
			"Montag": {Number: "1", Name: "Suppe", Price: "3,50"},
		},
		"Ben": {
			"Montag": {Number: "1", Name: "Suppe", Price: "3,50"},
		},
	}
	return week
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, demoWeek()); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Montag",
		"#1 Suppe (3,50 \u20ac)  x2",
		"#2 Salat (4,00 \u20ac)",
		"Ana",
		"Gesamt: 3,50 \u20ac",
		"Gesamtsumme: 7,00 \u20ac",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, models.NewWeek()); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Gesamtsumme: 0,00 \u20ac") {
		t.Errorf("empty report missing zero grand total:\n%s", buf.String())
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, demoWeek()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	out := buf.Bytes()

	// Byte-order mark first, for spreadsheet encoding detection.
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Errorf("csv output does not start with a UTF-8 BOM: % x", out[:3])
	}

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	if lines[0] != "Tag;Nummer;Gericht;Anzahl" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 2 || lines[1] != "Montag;1;Suppe;2" {
		t.Errorf("rows = %q, want one Montag row with count 2", lines[1:])
	}
}
