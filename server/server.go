// Package server exposes the turn pipeline over HTTP: a chat endpoint and
// a health check. Transport concerns stop here; the orchestrator knows
// nothing about HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// TurnProcessor is the slice of the orchestrator the server needs.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, sessionID, userText string) (string, error)
}

// Server handles the HTTP chat API.
type Server struct {
	turns   TurnProcessor
	appName string
	logger  *slog.Logger
}

// New creates a Server around a turn processor.
func New(turns TurnProcessor, appName string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{turns: turns, appName: appName, logger: logger}
}

// Handler returns the HTTP handler serving POST /chat and GET /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	// A missing session id starts a fresh session; the minted id comes
	// back in the response so the client can continue it.
	if req.SessionID == "" {
		req.SessionID = uuid.Must(uuid.NewV7()).String()
	}

	reply, err := s.turns.ProcessTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("turn processing failed", "session_id", req.SessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply, SessionID: req.SessionID})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.appName,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
