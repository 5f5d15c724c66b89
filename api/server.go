package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/cookie-milk-connect4/game/config"
	"github.com/wricardo/cookie-milk-connect4/game/engine"
	"github.com/wricardo/cookie-milk-connect4/game/service"
	"github.com/wricardo/cookie-milk-connect4/metrics"
	"github.com/wricardo/cookie-milk-connect4/transport/websocket"
)

// Options tunes the server. A zero PlaceRate disables the limiter on the
// JSON place route; the /12 routes are never limited.
type Options struct {
	PlaceRate  float64 // requests per second per client IP
	PlaceBurst int
}

// Server represents the HTTP server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	limiter *clientLimiter
}

// NewServer creates a new API server. hub may be nil, which disables /ws
// and broadcasts.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts Options) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		limiter: newClientLimiter(opts.PlaceRate, opts.PlaceBurst, 0),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Use(
		chimw.RequestID,
		chimw.RealIP,
		requestLogger,
		chimw.Recoverer,
		metrics.Middleware(routeTemplate),
	)

	// Shared board, plain text
	board := s.router.PathPrefix("/12").Subrouter()
	board.HandleFunc("/board", s.handleTextBoard).Methods("GET")
	board.HandleFunc("/reset", s.handleTextReset).Methods("POST")
	board.HandleFunc("/place/{team}/{column}", s.handleTextPlace).Methods("POST")
	board.HandleFunc("/random-board", s.handleTextRandomBoard).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Board operations
	api.HandleFunc("/sessions/{id}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/place", s.limiter.Wrap(s.handlePlace)).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/random-board", s.handleRandomBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Presets
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, config.ErrConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTeam), errors.Is(err, engine.ErrInvalidColumn),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrColumnFull), errors.Is(err, engine.ErrGameOver):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) broadcast(board *service.BoardView) {
	if s.hub != nil && board != nil {
		s.hub.BroadcastBoard(board.SessionID, board)
	}
}

// Shared board handlers

func (s *Server) handleTextBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.GetBoard(r.Context(), service.DefaultSessionID)
	if err != nil {
		respondText(w, statusFor(err), err.Error()+"\n")
		return
	}
	respondText(w, http.StatusOK, board.Rendered)
}

func (s *Server) handleTextReset(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.Reset(r.Context(), service.DefaultSessionID)
	if err != nil {
		respondText(w, statusFor(err), err.Error()+"\n")
		return
	}
	s.broadcast(board)
	respondText(w, http.StatusOK, board.Rendered)
}

// handleTextPlace answers 400 with an empty body for a bad team, column
// syntax or column number, and 503 with the unchanged board when the column
// is full or the game is over. Team names must be exactly "cookie" or "milk".
func (s *Server) handleTextPlace(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if _, err := engine.ParseTeam(vars["team"]); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	column, err := strconv.Atoi(vars["column"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := s.service.Place(r.Context(), service.DefaultSessionID, vars["team"], column)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusServiceUnavailable && result != nil {
			respondText(w, status, result.Board.Rendered)
			return
		}
		if status == http.StatusBadRequest {
			w.WriteHeader(status)
			return
		}
		respondText(w, status, err.Error()+"\n")
		return
	}

	s.broadcast(result.Board)
	respondText(w, http.StatusOK, result.Board.Rendered)
}

func (s *Server) handleTextRandomBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.RandomBoard(r.Context(), service.DefaultSessionID, false)
	if err != nil {
		respondText(w, statusFor(err), err.Error()+"\n")
		return
	}
	respondText(w, http.StatusOK, board.Rendered)
}

// Session handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id,omitempty"`
	}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	sess, err := s.service.CreateSession(r.Context(), req.ConfigID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			// The session is what's being created; the unknown preset is a bad request.
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default)
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}
		if ti.Equal(tj) {
			return sessions[i].ID < sessions[j].ID
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if strings.EqualFold(sessionID, service.DefaultSessionID) {
		respondError(w, http.StatusBadRequest, "the default session cannot be deleted")
		return
	}

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Board handlers

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.GetBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Team   string `json:"team"`
		Column int    `json:"column"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Place(r.Context(), sessionID, req.Team, req.Column)
	if err != nil {
		if result != nil {
			// Rejected by the board; the result still carries it.
			respondJSON(w, statusFor(err), result)
			return
		}
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(result.Board)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	board, err := s.service.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}

	s.broadcast(board)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Board reset successfully",
		"board":   board,
	})
}

func (s *Server) handleRandomBoard(w http.ResponseWriter, r *http.Request) {
	includeEmpty, _ := strconv.ParseBool(r.URL.Query().Get("include_empty"))

	board, err := s.service.RandomBoard(r.Context(), mux.Vars(r)["id"], includeEmpty)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, history)
}

// Preset handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".yaml")

	preset, err := s.service.LoadConfig(r.Context(), name)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusNotFound
		}
		respondError(w, status, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, preset)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket disabled", http.StatusNotFound)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
