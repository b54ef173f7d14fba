package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/somnuslabs/somnus/internal/auralink"
	"github.com/somnuslabs/somnus/internal/coach"
	"github.com/somnuslabs/somnus/internal/config"
	"github.com/somnuslabs/somnus/internal/observability"
	"github.com/somnuslabs/somnus/internal/points"
	"github.com/somnuslabs/somnus/internal/sleep"
	"github.com/somnuslabs/somnus/internal/users"
)

type Server struct {
	cfg       config.Config
	reports   *coach.ReportService
	chat      *coach.ChatService
	summaries sleep.Store
	points    *points.Service
	users     users.Store
	bridge    *auralink.Service
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
}

func New(
	cfg config.Config,
	reports *coach.ReportService,
	chat *coach.ChatService,
	summaries sleep.Store,
	pointsSvc *points.Service,
	userStore users.Store,
	bridge *auralink.Service,
	metrics *observability.Metrics,
) *Server {
	return &Server{
		cfg:       cfg,
		reports:   reports,
		chat:      chat,
		summaries: summaries,
		points:    pointsSvc,
		users:     userStore,
		bridge:    bridge,
		metrics:   metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up; other sites must not
				// be able to drive a user's chat session.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/ai/report", s.handleGenerateReport)
	r.Post("/v1/ai/chat", s.handleChat)
	r.Post("/v1/ai/chat/clear", s.handleClearChat)
	r.Get("/v1/ai/chat/stats", s.handleChatStats)
	r.Get("/v1/ai/chat/ws", s.handleChatWS)
	r.Get("/v1/ai/help", s.handleHelp)

	r.Post("/v1/sleep/summaries", s.handleAddSummary)
	r.Get("/v1/sleep/summaries", s.handleGetSummary)
	r.Get("/v1/sleep/summaries/list", s.handleListSummaries)
	r.Post("/v1/sleep/summaries/seed", s.handleSeedSummaries)

	r.Post("/v1/points/generate", s.handleGeneratePoints)
	r.Get("/v1/points/history", s.handlePointsHistory)
	r.Get("/v1/points/total", s.handlePointsTotal)

	r.Post("/v1/users", s.handleCreateUser)
	r.Get("/v1/users/{id}", s.handleGetUser)
	r.Put("/v1/users/{id}", s.handleUpdateUser)
	r.Get("/v1/users/wallet/{address}", s.handleGetUserByWallet)

	r.Post("/v1/auralink/burn", s.handleBurnPoints)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ready",
		"bridge_enabled": s.bridge != nil && s.bridge.Enabled(),
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
