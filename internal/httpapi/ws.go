package httpapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type wsInbound struct {
	Message string `json:"message"`
	Role    string `json:"role,omitempty"`
}

// handleChatWS relays chat turns over a websocket: each inbound JSON frame is
// one message, each outbound frame the full turn result. One connection maps
// to one session, so turns are processed strictly in order.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if s.metrics != nil {
		s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()
		defer s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()
	}

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		if strings.TrimSpace(in.Message) == "" {
			if err := conn.WriteJSON(errorResponse{Error: "message is required", Code: "invalid_request"}); err != nil {
				return
			}
			continue
		}

		turn, err := s.orchestrator.HandleMessage(r.Context(), sessionID, in.Role, in.Message)
		if err != nil {
			if writeErr := conn.WriteJSON(errorResponse{Error: err.Error(), Code: "turn_failed"}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(chatResponse{
			SessionID: turn.SessionID,
			Response:  turn.Response,
			Source:    string(turn.Source),
			History:   turn.Window,
		}); err != nil {
			return
		}
	}
}
