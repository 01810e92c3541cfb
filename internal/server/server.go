// Package server exposes the assessment engine over HTTP. It owns request
// decoding and boundary validation; the core packages behind it assume
// validated input.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/visapath/visapath-cli/api/schemas"
	"github.com/visapath/visapath-cli/internal/assembler"
	"github.com/visapath/visapath-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server is the HTTP API front end.
type Server struct {
	cfg     config.ServerConfig
	asm     *assembler.Assembler
	catalog schemas.CatalogSource
	log     *zap.Logger
	limiter *rate.Limiter
	httpSrv *http.Server
}

// New wires the API server. The assembler and catalog are required.
func New(cfg config.ServerConfig, asm *assembler.Assembler, catalog schemas.CatalogSource, logger *zap.Logger) (*Server, error) {
	if asm == nil {
		return nil, fmt.Errorf("cannot initialize server with nil assembler")
	}
	if catalog == nil {
		return nil, fmt.Errorf("cannot initialize server with nil catalog")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		asm:     asm,
		catalog: catalog,
		log:     logger.Named("server"),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/decision-graph", s.handleDecisionGraph)
	mux.HandleFunc("POST /api/v1/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/v1/eligibility/states", s.handleStates)
	mux.HandleFunc("GET /api/v1/eligibility/pathways", s.handlePathways)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.httpSrv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// ListenAndServe blocks until the context is canceled or the listener
// fails, then drains in-flight requests within the shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API server listening", zap.String("addr", s.cfg.ListenAddr))
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("Shutting down API server")
	return s.httpSrv.Shutdown(shutdownCtx)
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
