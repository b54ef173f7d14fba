package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/somnuslabs/somnus/internal/users"
)

type createUserRequest struct {
	WalletAddress string `json:"wallet_address"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	created, err := s.users.Create(r.Context(), users.User{
		WalletAddress: strings.TrimSpace(req.WalletAddress),
		Username:      strings.TrimSpace(req.Username),
		Avatar:        strings.TrimSpace(req.Avatar),
	})
	if errors.Is(err, users.ErrInvalidWallet) {
		respondError(w, http.StatusBadRequest, "invalid_wallet", err.Error())
		return
	}
	if errors.Is(err, users.ErrWalletTaken) {
		respondError(w, http.StatusConflict, "wallet_taken", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", "could not create user")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing_id", "user id is required")
		return
	}

	u, err := s.users.GetByID(r.Context(), id)
	if errors.Is(err, users.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", "could not load user")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleGetUserByWallet(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(chi.URLParam(r, "address"))
	if address == "" {
		respondError(w, http.StatusBadRequest, "missing_address", "wallet address is required")
		return
	}

	u, err := s.users.GetByWallet(r.Context(), address)
	if errors.Is(err, users.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", "could not load user")
		return
	}
	respondJSON(w, http.StatusOK, u)
}

type updateUserRequest struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing_id", "user id is required")
		return
	}
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	updated, err := s.users.Update(r.Context(), users.User{
		ID:       id,
		Username: strings.TrimSpace(req.Username),
		Avatar:   strings.TrimSpace(req.Avatar),
	})
	if errors.Is(err, users.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", "could not update user")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

type burnRequest struct {
	WalletAddress string `json:"wallet_address"`
	Amount        int    `json:"amount"`
}

func (s *Server) handleBurnPoints(w http.ResponseWriter, r *http.Request) {
	var req burnRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	if req.WalletAddress == "" {
		respondError(w, http.StatusBadRequest, "missing_wallet", "wallet_address is required")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "bad_amount", "amount must be positive")
		return
	}

	result := s.bridge.BurnPoints(r.Context(), req.WalletAddress, req.Amount)
	respondJSON(w, http.StatusOK, result)
}
