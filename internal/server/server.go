// Package server implements the gridmesh HTTP API.
//
// The API is a thin host over the build pipeline:
//
//	POST   /v1/layout         compute a layout, return it
//	POST   /v1/layouts        compute a layout, persist it, return it with an ID
//	GET    /v1/layouts/{id}   fetch a persisted layout
//	DELETE /v1/layouts/{id}   remove a persisted layout
//	GET    /healthz           liveness probe
//
// Every request gets a UUID request ID (echoed in X-Request-ID) and a
// structured log line with method, path, status, and duration.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gridmesh/gridmesh/pkg/errors"
	"github.com/gridmesh/gridmesh/pkg/graph"
	"github.com/gridmesh/gridmesh/pkg/observability"
	"github.com/gridmesh/gridmesh/pkg/pipeline"
	"github.com/gridmesh/gridmesh/pkg/store"
)

// maxRequestBody caps request bodies at 16 MiB; graph descriptions beyond
// that indicate a runaway client.
const maxRequestBody = 16 << 20

// Server handles HTTP requests against the build pipeline.
type Server struct {
	runner *pipeline.Runner
	store  store.LayoutStore
	logger *log.Logger
}

// New creates a server. A nil store disables the persistence endpoints with
// 501 responses rather than panicking.
func New(runner *pipeline.Runner, st store.LayoutStore, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi route tree with logging and request-ID middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleCompute)
		r.Post("/layouts", s.handleCreate)
		r.Get("/layouts/{id}", s.handleGet)
		r.Delete("/layouts/{id}", s.handleDelete)
	})
	return r
}

// =============================================================================
// Handlers
// =============================================================================

// buildRequest is the request body for the compute endpoints.
type buildRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// buildResponse is the response body for the compute endpoints.
type buildResponse struct {
	ID        string       `json:"id,omitempty"`
	GraphHash string       `json:"graph_hash"`
	Layout    graph.Layout `json:"layout"`
	CacheHit  bool         `json:"cache_hit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeBuild(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Execute(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buildResponse{
		GraphHash: res.GraphHash,
		Layout:    res.Layout,
		CacheHit:  res.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "layout persistence is not configured"))
		return
	}
	req, ok := s.decodeBuild(w, r)
	if !ok {
		return
	}
	res, err := s.runner.Execute(r.Context(), req.Graph, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rec := store.Record{
		ID:        uuid.NewString(),
		GraphHash: res.GraphHash,
		Layout:    res.Layout,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, buildResponse{
		ID:        rec.ID,
		GraphHash: rec.GraphHash,
		Layout:    rec.Layout,
		CacheHit:  res.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "layout persistence is not configured"))
		return
	}
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "layout persistence is not configured"))
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeBuild(w http.ResponseWriter, r *http.Request) (buildRequest, bool) {
	var req buildRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return buildRequest{}, false
	}
	return req, true
}

// =============================================================================
// Middleware
// =============================================================================

// requestID assigns a UUID to every request and echoes it back.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// logRequests emits one structured log line per request and feeds the HTTP
// observability hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.status, duration)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration", duration.Round(time.Millisecond),
			"request_id", w.Header().Get("X-Request-ID"))
	})
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// =============================================================================
// Responses
// =============================================================================

// errorResponse is the JSON error body.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLayoutNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	case "":
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
