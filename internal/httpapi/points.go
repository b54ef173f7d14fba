package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/somnuslabs/somnus/internal/points"
)

type generatePointsRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

func (s *Server) handleGeneratePoints(w http.ResponseWriter, r *http.Request) {
	var req generatePointsRequest
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

	record, err := s.points.Generate(r.Context(), req.UserID, req.Date)
	if errors.Is(err, points.ErrNoSleepData) {
		respondError(w, http.StatusNotFound, "no_sleep_data", "no sleep summary for that date")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "points_error", "could not generate points")
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (s *Server) handlePointsHistory(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	history, err := s.points.History(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "points_error", "could not load history")
		return
	}
	if history == nil {
		history = []points.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"records": history})
}

func (s *Server) handlePointsTotal(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}

	total, err := s.points.Total(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "points_error", "could not compute total")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user_id": userID, "total": total})
}
