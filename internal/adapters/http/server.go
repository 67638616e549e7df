package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"indigenousverify/internal/domain"
	"indigenousverify/internal/ports"
)

const homePage = `<!DOCTYPE html>
<html>
<head><title>Indigenous Verify</title></head>
<body><h1>Indigenous Verify - LIVE!</h1></body>
</html>
`

// Server exposes the verification service over HTTP.
type Server struct {
	verifications ports.Verifications
	version       string
	gatherer      prometheus.Gatherer
	logger        *slog.Logger
}

// New builds a Server. A nil gatherer disables /metrics.
func New(verifications ports.Verifications, version string, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		verifications: verifications,
		version:       version,
		gatherer:      gatherer,
		logger:        logger.With("component", "http"),
	}
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.home)
	r.Get("/health", s.health)
	r.Get("/api/verify", s.verify)
	r.Get("/api/stats", s.stats)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type statsResponse struct {
	Stats               domain.Stats     `json:"stats"`
	RecentVerifications []domain.Verdict `json:"recent_verifications"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) home(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(homePage))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "healthy", Version: s.version})
}

// verify accepts any bn value, including none.
func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	bn := r.URL.Query().Get("bn")
	verdict, err := s.verifications.Check(r.Context(), bn)
	if err != nil {
		s.internalError(w, r, "verification failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, verdict)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	stats, recent, err := s.verifications.Stats(r.Context())
	if err != nil {
		s.internalError(w, r, "stats failed", err)
		return
	}
	if recent == nil {
		recent = []domain.Verdict{}
	}
	s.respondJSON(w, http.StatusOK, statsResponse{Stats: stats, RecentVerifications: recent})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, "error", err, "request_id", middleware.GetReqID(r.Context()))
	s.respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}
