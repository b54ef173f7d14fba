package httpapi

import (
	"net/http"
	"strings"
	"time"
)

type reportRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

type textResponse struct {
	Text string `json:"text"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
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

	text := s.reports.GenerateReport(r.Context(), req.UserID, req.Date)
	respondJSON(w, http.StatusOK, textResponse{Text: text})
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	reply := s.chat.Chat(r.Context(), req.UserID, req.Message)
	respondJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

type clearChatRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleClearChat(w http.ResponseWriter, r *http.Request) {
	var req clearChatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}
	respondJSON(w, http.StatusOK, textResponse{Text: s.chat.ClearHistory(req.UserID)})
}

func (s *Server) handleChatStats(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}
	respondJSON(w, http.StatusOK, textResponse{Text: s.chat.Statistics(userID)})
}

func (s *Server) handleHelp(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, textResponse{Text: s.chat.HelpMessage()})
}
