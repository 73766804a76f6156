package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driving"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "127.0.0.1:8765"

const (
	maxBodyBytes   = 1 << 20
	requestsPerSec = 20
	requestBurst   = 40
)

// ErrMissingPaginator is returned when the paginator is not provided.
var ErrMissingPaginator = errors.New("httpapi: paginator is required")

// Ports aggregates the driving ports used by the API.
type Ports struct {
	// Paginator splits posted text. Required.
	Paginator driving.Paginator

	// Sheet serves stored sheets. Optional.
	Sheet driving.SheetService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Paginator == nil {
		return ErrMissingPaginator
	}
	return nil
}

// Server is the HTTP API server.
type Server struct {
	ports   *Ports
	limiter *rate.Limiter
	router  chi.Router
}

// NewServer creates a server with its routes registered.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		ports:   ports,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), requestBurst),
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if logger.IsVerbose() {
		r.Use(middleware.Logger)
	}
	r.Use(s.rateLimit)

	r.Get("/api/ping", s.handlePing)
	r.Post("/api/paginate", s.handlePaginate)
	r.Route("/api/sheets", func(r chi.Router) {
		r.Get("/latest/pages", s.handleSheetPages)
		r.Get("/{sheetID}/pages", s.handleSheetPages)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})
	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "Too many requests.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody mirrors the backend's failure shape.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
