package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/glynne/glyai/internal/chat"
	"github.com/glynne/glyai/internal/config"
	"github.com/glynne/glyai/internal/observability"
	"github.com/glynne/glyai/internal/report"
	"github.com/glynne/glyai/internal/turnlog"
)

type Server struct {
	cfg          config.Config
	orchestrator *chat.Orchestrator
	auditor      *report.Auditor
	metrics      *observability.Metrics
	upgrader     websocket.Upgrader
}

func New(cfg config.Config, orchestrator *chat.Orchestrator, auditor *report.Auditor, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:          cfg,
		orchestrator: orchestrator,
		auditor:      auditor,
		metrics:      metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if strings.EqualFold(u.Host, r.Host) {
					return true
				}
				for _, allowed := range cfg.AllowedOrigins {
					if strings.EqualFold(strings.TrimRight(allowed, "/"), strings.TrimRight(origin, "/")) {
						return true
					}
				}
				return false
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/chat", s.handleChat)
	r.Get("/chat/ws", s.handleChatWS)
	r.Get("/session/{id}/history", s.handleHistory)
	r.Get("/reset", s.handleResetAll)
	r.Post("/reset", s.handleResetAll)
	r.Get("/reset/{id}", s.handleReset)
	r.Post("/reset/{id}", s.handleReset)
	r.Post("/generate_report", s.handleGenerateReport)
	r.Post("/generate_ecosystem/{id}", s.handleGenerateEcosystem)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type chatRequest struct {
	Message   string `json:"message"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	SessionID string         `json:"session_id"`
	Response  string         `json:"response"`
	Source    string         `json:"source"`
	History   []turnlog.Turn `json:"history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = uuid.NewString()
	}

	turn, err := s.orchestrator.HandleMessage(r.Context(), req.SessionID, req.Role, req.Message)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "turn_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, chatResponse{
		SessionID: turn.SessionID,
		Response:  turn.Response,
		Source:    string(turn.Source),
		History:   turn.Window,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	history := s.orchestrator.History(id)
	if history == nil {
		history = []turnlog.Turn{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"history":    history,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.orchestrator.Reset(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "reset_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"session_id": id,
	})
}

func (s *Server) handleResetAll(w http.ResponseWriter, r *http.Request) {
	if err := s.orchestrator.ResetAll(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "reset_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "session_id query parameter is required")
		return
	}

	text, err := s.auditor.GenerateAudit(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, report.ErrNoConversation) {
			respondError(w, http.StatusNotFound, "no_conversation", "no conversation recorded for this session")
			return
		}
		respondError(w, http.StatusInternalServerError, "report_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"report":     text,
	})
}

func (s *Server) handleGenerateEcosystem(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	eco, err := s.auditor.GenerateEcosystem(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, report.ErrNoConversation) {
			respondError(w, http.StatusNotFound, "no_conversation", "no conversation recorded for this session")
			return
		}
		respondError(w, http.StatusInternalServerError, "ecosystem_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, eco)
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
