package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type wsChatRequest struct {
	Message string `json:"message"`
}

type wsChatReply struct {
	Reply string `json:"reply"`
}

// handleChatWS serves a persistent chat connection. Each inbound text frame
// carries one message; the handler answers with one reply frame before
// reading the next. Writes stay single-threaded on the handler goroutine.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "query parameter user_id is required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		if msgType != websocket.TextMessage {
			continue
		}
		s.metrics.WSMessages.WithLabelValues("inbound").Inc()

		var req wsChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(errorResponse{Error: "invalid JSON frame", Code: "bad_frame"}); err != nil {
				return
			}
			continue
		}

		reply := s.chat.Chat(r.Context(), userID, req.Message)
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(wsChatReply{Reply: reply}); err != nil {
			return
		}
		s.metrics.WSMessages.WithLabelValues("outbound").Inc()
	}
}
