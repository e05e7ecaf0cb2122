// Package server exposes the archive builder's entry points over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness check, always 200
//	GET  /params_schema  the (empty) options schema
//	POST /process_paths  JSON payload in, JSON processing result out
//
// Failures are reported as {"code", "message", "status"} where status is
// the process status the CLI would exit with for the same error.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/observability"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/pipeline"
)

// maxPayloadBytes bounds the request body of /process_paths.
const maxPayloadBytes = 32 << 20

// Server serves the pipeline entry points for one runner.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger
	Hooks  observability.HTTPHooks
}

// New creates a server for runner. Hooks default to the globally
// registered ones.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Logger: logger, Hooks: observability.HTTP()}
}

// Handler returns the router with every route and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/params_schema", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, pipeline.GetParamsSchema())
	})
	r.Post("/process_paths", s.processPaths)
	return r
}

func (s *Server) processPaths(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.Logger.With("request", middleware.GetReqID(ctx))

	payload, err := pipeline.ReadPayload(http.MaxBytesReader(w, r.Body, maxPayloadBytes), pipeline.FormatJSON)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	res, err := s.Runner.ProcessPaths(ctx, payload)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	w.Header().Set("X-Archive-Digest", res.Digest)
	w.Header().Set("X-Run-ID", res.RunID)
	writeJSON(w, http.StatusOK, res.ProcessingResult)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
}

func (s *Server) fail(w http.ResponseWriter, logger *log.Logger, err error) {
	status := errors.StatusCode(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	logger.Error("request failed", "code", code, "err", err)
	writeJSON(w, httpStatus(status), ErrorResponse{
		Code:    code,
		Message: errors.UserMessage(err),
		Status:  status,
	})
}

// httpStatus maps a process status to an HTTP status.
func httpStatus(status int) int {
	switch status {
	case errors.StatusInput:
		return http.StatusUnprocessableEntity
	case errors.StatusRead, errors.StatusWrite:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := s.Hooks
		if hooks == nil {
			hooks = observability.NoopHTTPHooks{}
		}
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully, waiting at most shutdownTimeout for open requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
