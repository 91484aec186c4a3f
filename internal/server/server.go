// Package server exposes the game engine over HTTP. Engine errors are
// translated into status codes with generic bodies; detail goes to the log.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/tatianab/sales-game/internal/engine"
	"github.com/tatianab/sales-game/internal/models"
)

type Server struct {
	engine *engine.Engine
	server *http.Server
	log    zerolog.Logger
}

func New(eng *engine.Engine, addr string, logger zerolog.Logger) *Server {
	s := &Server{
		engine: eng,
		log:    logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/game/random-product", s.handleRandomProduct).Methods(http.MethodGet)
	router.HandleFunc("/game/start", s.handleStart).Methods(http.MethodPost)
	router.HandleFunc("/game/session/{sessionID}", s.handleGetSession).Methods(http.MethodGet)
	router.HandleFunc("/game/message", s.handleMessage).Methods(http.MethodPost)
	router.HandleFunc("/game/end/{sessionID}", s.handleEnd).Methods(http.MethodPost)

	s.server = &http.Server{
		Addr:    addr,
		Handler: router,
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks serving requests until the server is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("game server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRandomProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.engine.GenerateRandomProduct(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate random product")
		http.Error(w, "Failed to generate random product", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, product)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.Price <= 0 {
		http.Error(w, "Product requires a name and a positive price", http.StatusBadRequest)
		return
	}

	session, err := s.engine.StartGame(r.Context(), product)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to start game")
		http.Error(w, "Failed to start game", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	session, ok := s.engine.GetGameSession(sessionID)
	if !ok {
		http.Error(w, "Game session not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, session)
}

type playerMessageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req playerMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid message", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" || req.Message == "" {
		http.Error(w, "Message requires a sessionId and a message", http.StatusBadRequest)
		return
	}

	response, err := s.engine.ProcessPlayerMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrSessionNotFound):
			http.Error(w, "Game session not found", http.StatusNotFound)
		case errors.Is(err, engine.ErrSessionEnded):
			http.Error(w, "Game session already ended", http.StatusConflict)
		default:
			s.log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to process message")
			http.Error(w, "Failed to process your message", http.StatusInternalServerError)
		}
		return
	}
	s.writeJSON(w, response)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	result, err := s.engine.EndGame(sessionID)
	if err != nil {
		if errors.Is(err, engine.ErrSessionNotFound) {
			http.Error(w, "Game session not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to end game")
		http.Error(w, "Failed to end game", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg(fmt.Sprintf("failed to encode %T", v))
	}
}
