// Package server exposes the report pipeline over HTTP. The report views
// are served as plain JSON; metrics on /metrics; optional bearer-token auth
// when a passphrase hash is configured.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/jastipin/billing/internal/auth"
	"github.com/jastipin/billing/internal/service"
)

// maxBodyBytes caps transcript uploads; real transcripts are a few KB.
const maxBodyBytes = 4 << 20

// Config holds the server settings.
type Config struct {
	Addr string

	// PassphraseHash is a bcrypt hash; empty disables authentication and
	// the /v1/token endpoint.
	PassphraseHash string

	// TokenSecret signs JWTs; required when PassphraseHash is set.
	TokenSecret string

	// TokenTTL bounds token lifetime; defaults to 24h.
	TokenTTL time.Duration
}

// Server wires the report service into an HTTP API.
type Server struct {
	svc  *service.ReportService
	cfg  Config
	gate *auth.PassphraseGate
	jwts *auth.JWTManager
}

// New creates a Server. Auth is enabled only when cfg.PassphraseHash is set.
func New(svc *service.ReportService, cfg Config) *Server {
	s := &Server{svc: svc, cfg: cfg}
	if cfg.PassphraseHash != "" {
		ttl := cfg.TokenTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		s.gate = auth.NewPassphraseGate(cfg.PassphraseHash)
		s.jwts = auth.NewJWTManager(cfg.TokenSecret, ttl)
	}
	return s
}

// Handler builds the full middleware stack, h2c-wrapped so clients can use
// HTTP/2 without TLS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/token", s.handleToken)
	mux.Handle("POST /v1/reports", requireAuth(s.jwts, http.HandlerFunc(s.handleReports)))
	mux.Handle("GET /v1/runs", requireAuth(s.jwts, http.HandlerFunc(s.handleRuns)))
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := loggingMiddleware(corsMiddleware(metricsMiddleware(mux)))
	return h2c.NewHandler(handler, &http2.Server{})
}

// ListenAndServe starts the server and blocks.
func (s *Server) ListenAndServe() error {
	slog.Info("report server starting", "address", s.cfg.Addr, "auth", s.jwts != nil)
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if s.gate == nil {
		writeError(w, http.StatusNotFound, "authentication is not configured")
		return
	}
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.gate.Verify(req.Passphrase); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	token, err := s.jwts.Generate("reports")
	if err != nil {
		slog.Error("token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	opts := service.GenerateOptions{
		Save:   r.URL.Query().Get("save") == "true",
		Source: "http",
	}
	if top := r.URL.Query().Get("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		opts.TopN = n
	}
	res, err := s.svc.Generate(r.Context(), string(body), opts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrArchiveDisabled):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("report generation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "report generation failed")
		}
		return
	}

	runsTotal.Inc()
	for _, d := range res.Diagnostics {
		diagnosticsTotal.WithLabelValues(string(d.Kind)).Inc()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.svc.ListRuns(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrArchiveDisabled) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("run listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
