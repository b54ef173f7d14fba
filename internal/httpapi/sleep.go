package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/somnuslabs/somnus/internal/sleep"
)

type addSummaryRequest struct {
	UserID         string `json:"user_id"`
	Date           string `json:"date"`
	TotalSleepMins int    `json:"total_sleep_minutes"`
	DeepSleepMins  int    `json:"deep_sleep_minutes"`
	RemSleepMins   int    `json:"rem_sleep_minutes"`
	Score          int    `json:"sleep_score"`
}

func (s *Server) handleAddSummary(w http.ResponseWriter, r *http.Request) {
	var req addSummaryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Date = strings.TrimSpace(req.Date)
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		respondError(w, http.StatusBadRequest, "bad_date", "date must be YYYY-MM-DD")
		return
	}
	if req.Score < 0 || req.Score > 100 {
		respondError(w, http.StatusBadRequest, "bad_score", "sleep_score must be between 0 and 100")
		return
	}
	if req.TotalSleepMins < 0 || req.DeepSleepMins < 0 || req.RemSleepMins < 0 {
		respondError(w, http.StatusBadRequest, "bad_duration", "sleep durations must not be negative")
		return
	}
	if req.DeepSleepMins > req.TotalSleepMins {
		respondError(w, http.StatusBadRequest, "bad_duration", "deep sleep cannot exceed total sleep")
		return
	}

	saved, err := s.summaries.Add(r.Context(), sleep.Summary{
		UserID:         req.UserID,
		Date:           req.Date,
		TotalSleepMins: req.TotalSleepMins,
		DeepSleepMins:  req.DeepSleepMins,
		RemSleepMins:   req.RemSleepMins,
		Score:          req.Score,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", "could not save summary")
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if userID == "" || date == "" {
		respondError(w, http.StatusBadRequest, "missing_params", "user_id and date are required")
		return
	}

	summary, err := s.summaries.GetByUserAndDate(r.Context(), userID, date)
	if errors.Is(err, sleep.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "no summary for that user and date")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", "could not load summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	list, err := s.summaries.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", "could not list summaries")
		return
	}
	if list == nil {
		list = []sleep.Summary{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"summaries": list})
}

func (s *Server) handleSeedSummaries(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.DemoSeedEnabled {
		respondError(w, http.StatusForbidden, "seed_disabled", "demo seeding is not enabled")
		return
	}
	n, err := sleep.SeedDemoData(r.Context(), s.summaries)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "seed_error", "seeding failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"seeded": n})
}
