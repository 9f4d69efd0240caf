// Package server exposes the planner over an HTTP/JSON API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mknorr/kantine/internal/billing"
	"github.com/mknorr/kantine/internal/export"
	"github.com/mknorr/kantine/internal/models"
	"github.com/mknorr/kantine/internal/planner"
	"github.com/mknorr/kantine/internal/summary"
	"github.com/mknorr/kantine/internal/syncer"
)

// Server holds the planner and the sync coordinator behind the API.
type Server struct {
	planner *planner.Planner
	sync    *syncer.Coordinator
}

// New creates a Server for the given planner and coordinator.
func New(p *planner.Planner, c *syncer.Coordinator) *Server {
	return &Server{planner: p, sync: c}
}

// Routes builds the request mux for the whole API.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/week", s.handleWeek)
	mux.HandleFunc("GET /api/week/previous", s.handlePreviousWeek)
	mux.HandleFunc("POST /api/week/reset", s.handleResetWeek)

	mux.HandleFunc("POST /api/meals", s.handleAddMeal)
	mux.HandleFunc("DELETE /api/meals/{day}/{index}", s.handleRemoveMeal)

	mux.HandleFunc("POST /api/orders", s.handlePlaceOrder)
	mux.HandleFunc("DELETE /api/orders/{name}/{day}", s.handleRemoveOrder)
	mux.HandleFunc("DELETE /api/participants/{name}", s.handleRemoveParticipant)

	mux.HandleFunc("GET /api/bills", s.handleBills)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/export/report", s.handleReport)
	mux.HandleFunc("GET /api/export/csv", s.handleCSV)
	mux.HandleFunc("GET /api/status", s.handleStatus)

	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.planner.State())
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.planner.State().Current)
}

func (s *Server) handlePreviousWeek(w http.ResponseWriter, r *http.Request) {
	prev := s.planner.State().Previous
	if prev == nil {
		http.Error(w, "no previous week", http.StatusNotFound)
		return
	}
	writeJSON(w, prev)
}

func (s *Server) handleResetWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		http.Error(w, "confirmation required", http.StatusBadRequest)
		return
	}
	s.planner.ResetWeek()
	writeJSON(w, s.planner.State())
}

func (s *Server) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day    string       `json:"day"`
		Number string       `json:"number"`
		Name   string       `json:"name"`
		Price  models.Price `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	meal := models.Meal{Number: req.Number, Name: req.Name, Price: req.Price}
	if err := s.planner.AddMeal(req.Day, meal); err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, meal)
}

func (s *Server) handleRemoveMeal(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "index must be a number", http.StatusBadRequest)
		return
	}
	if err := s.planner.RemoveMeal(r.PathValue("day"), index); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Day    string `json:"day"`
		Number string `json:"number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	meal, err := s.planner.PlaceOrder(req.Name, req.Day, req.Number)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, meal)
}

func (s *Server) handleRemoveOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.RemoveOrder(r.PathValue("name"), r.PathValue("day")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	// Destructive and irreversible: the operator must confirm.
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "confirmation required", http.StatusBadRequest)
		return
	}
	if err := s.planner.RemoveParticipant(r.PathValue("name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	orders := s.planner.State().Current.Orders

	totals := make(map[string]string, len(orders))
	for name, order := range orders {
		totals[name] = billing.Format(billing.UserTotal(order))
	}
	writeJSON(w, struct {
		Totals     map[string]string `json:"totals"`
		GrandTotal string            `json:"grand_total"`
	}{
		Totals:     totals,
		GrandTotal: billing.Format(billing.GrandTotal(orders)),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	lines := summary.Kitchen(s.planner.State().Current)
	if lines == nil {
		lines = []summary.Line{}
	}
	writeJSON(w, lines)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := export.WriteReport(w, s.planner.State().Current); err != nil {
		http.Error(w, "failed to render report", http.StatusInternalServerError)
	}
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="speiseplan.csv"`)
	if err := export.WriteCSV(w, s.planner.State().Current); err != nil {
		http.Error(w, "failed to render csv", http.StatusInternalServerError)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Online bool `json:"online"`
	}{Online: s.sync.Online()})
}

// writeError maps planner errors onto HTTP status codes: rejected input
// is a 400, a missing meal number is a 404 with the lookup message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, planner.ErrMealNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, planner.ErrMissingField), errors.Is(err, planner.ErrUnknownDay):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
