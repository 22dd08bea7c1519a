// Package api serves the assistant over HTTP.
package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/legacyprime/foreman/internal/audit"
	"github.com/legacyprime/foreman/internal/buildinfo"
	"github.com/legacyprime/foreman/internal/connwatch"
	"github.com/legacyprime/foreman/internal/events"
	"github.com/legacyprime/foreman/internal/orchestrator"
	"github.com/legacyprime/foreman/internal/usage"
)

// Assistant runs one conversation turn.
type Assistant interface {
	Run(ctx context.Context, req *orchestrator.Request) (*orchestrator.Response, error)
}

// UsageReporter aggregates the usage ledger.
type UsageReporter interface {
	Summary(ctx context.Context, start, end time.Time) (*usage.Summary, error)
	SummaryByModel(ctx context.Context, start, end time.Time) (map[string]*usage.Summary, error)
}

// CallLister reads the tool-call ledger.
type CallLister interface {
	Recent(ctx context.Context, limit int) ([]audit.Call, error)
}

// HealthReporter reports model-provider reachability.
type HealthReporter interface {
	Status() []connwatch.Status
}

// writeJSON encodes v as JSON to w, logging any errors at debug level.
// Errors here typically mean the client disconnected mid-response.
func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write JSON response", "error", err)
	}
}

// Server is the HTTP API server.
type Server struct {
	address   string
	port      int
	maxBody   int64
	assistant Assistant
	usage     UsageReporter
	calls     CallLister
	health    HealthReporter
	bus       *events.Bus
	logger    *slog.Logger
	server    *http.Server
}

// NewServer creates a server. maxBody caps request bodies in bytes.
func NewServer(address string, port int, maxBody int64, assistant Assistant, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		address:   address,
		port:      port,
		maxBody:   maxBody,
		assistant: assistant,
		logger:    logger.With("component", "api"),
	}
}

// SetUsageReporter enables GET /v1/usage.
func (s *Server) SetUsageReporter(u UsageReporter) { s.usage = u }

// SetCallLister enables GET /v1/tools/calls.
func (s *Server) SetCallLister(c CallLister) { s.calls = c }

// SetHealthReporter adds provider status to GET /health.
func (s *Server) SetHealthReporter(h HealthReporter) { s.health = h }

// SetEventBus enables the GET /v1/events stream.
func (s *Server) SetEventBus(b *events.Bus) { s.bus = b }

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/assistant", s.handleAssistant)
	mux.HandleFunc("POST /v1/email/compose", s.handleEmailCompose)

	mux.HandleFunc("GET /v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /v1/usage", s.handleUsage)
	mux.HandleFunc("GET /v1/tools/calls", s.handleToolCalls)
	mux.HandleFunc("GET /v1/events", s.handleEvents)

	mux.HandleFunc("GET /v1/version", s.handleVersion)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	return s.withLogging(mux)
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.address, s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute, // large attachments
		WriteTimeout:      5 * time.Minute, // two model rounds plus vision
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	addr := s.address
	if addr == "" {
		addr = "0.0.0.0"
	}
	s.logger.Info("starting API server", "address", addr, "port", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack passes the connection through for WebSocket upgrades.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{
		"name":    "Foreman",
		"version": buildinfo.Version,
		"status":  "ok",
	}, s.logger)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, buildinfo.Info(), s.logger)
}

// handleHealth answers 200 while the process is up. A provider that
// failed its last probe turns the status to "degraded".
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "healthy"}
	if s.health != nil {
		providers := s.health.Status()
		for _, p := range providers {
			if !p.Ready {
				body["status"] = "degraded"
			}
		}
		body["providers"] = providers
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, body, s.logger)
}

// errorResponse writes {"error": message}.
func (s *Server) errorResponse(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	writeJSON(w, map[string]string{"error": message}, s.logger)
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
