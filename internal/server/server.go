// Package server exposes the analyzer over HTTP: a landing endpoint that
// doubles as the payment return path, a redirect to the hosted payment page,
// and a small JSON API for submissions, state, and history.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"safemedia/internal/config"
	"safemedia/internal/history"
	"safemedia/internal/logging"
	"safemedia/internal/session"
)

// HistoryLister reads back recorded analyses for the history endpoint.
type HistoryLister interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
}

// Server serves the HTTP surface on the configured bind address.
type Server struct {
	bind        string
	paymentLink string
	logger      *slog.Logger
	controller  *session.Controller
	histories   HistoryLister

	listener net.Listener
	server   *http.Server
}

// New wires the HTTP surface. The history lister may be nil when history is
// disabled; the endpoint then returns an empty list.
func New(cfg *config.Config, controller *session.Controller, histories HistoryLister, logger *slog.Logger) (*Server, error) {
	if cfg == nil || controller == nil {
		return nil, errors.New("server: config and controller required")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("server: bind address required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		bind:        bind,
		paymentLink: strings.TrimSpace(cfg.Payment.Link),
		logger:      logging.NewComponentLogger(logger, "api-server"),
		controller:  controller,
		histories:   histories,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/pay", srv.handlePay)
	mux.HandleFunc("/api/analyze", srv.handleAnalyze)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/history", srv.handleHistory)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start listens on the bind address and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

type landingResponse struct {
	Service     string `json:"service"`
	Paid        bool   `json:"paid"`
	PaymentLink string `json:"paymentLink,omitempty"`
}

// handleRoot is the entry point and the payment return path. A successful
// payment redirect arrives as "/?success=true"; the indicator is consumed
// exactly once and stripped from the visible location via 303.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stripped, err := s.controller.HandlePaymentReturn(r.URL.Query())
	if err != nil {
		s.logger.Error("payment grant failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "could not record payment")
		return
	}
	if stripped {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	state := s.controller.State()
	payload := landingResponse{Service: "safemedia", Paid: state.Paid}
	if !state.Paid {
		payload.PaymentLink = "/pay"
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.paymentLink == "" {
		s.writeError(w, http.StatusNotFound, "no payment link configured")
		return
	}
	http.Redirect(w, r, s.paymentLink, http.StatusSeeOther)
}

type analyzeRequest struct {
	Query string `json:"query"`
}

type analyzeResponse struct {
	Result any `json:"result"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.controller.SetInput(req.Query)
	err := s.controller.Submit(r.Context())
	switch {
	case errors.Is(err, session.ErrPaymentRequired):
		s.writeError(w, http.StatusPaymentRequired, "payment required")
		return
	case errors.Is(err, session.ErrBusy):
		s.writeError(w, http.StatusConflict, "a submission is already in flight")
		return
	case errors.Is(err, session.ErrEmptyQuery):
		s.writeError(w, http.StatusUnprocessableEntity, "query required")
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state := s.controller.State()
	if state.ErrorMessage != "" {
		s.writeError(w, http.StatusBadGateway, state.ErrorMessage)
		return
	}
	s.writeJSON(w, http.StatusOK, analyzeResponse{Result: state.Result})
}

type statusResponse struct {
	Paid         bool   `json:"paid"`
	IsSubmitting bool   `json:"isSubmitting"`
	IsListening  bool   `json:"isListening"`
	HasResult    bool   `json:"hasResult"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	state := s.controller.State()
	s.writeJSON(w, http.StatusOK, statusResponse{
		Paid:         state.Paid,
		IsSubmitting: state.IsSubmitting,
		IsListening:  state.IsListening,
		HasResult:    state.Result != nil,
		ErrorMessage: state.ErrorMessage,
	})
}

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.histories == nil {
		s.writeJSON(w, http.StatusOK, historyResponse{Entries: []history.Entry{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	entries, err := s.histories.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
