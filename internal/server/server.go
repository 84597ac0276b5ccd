// Package server implements the field API: an HTTP service that stores and
// returns field layouts for the editor.
//
// Routes:
//
//	GET  /healthz
//	POST /api/normalize                                  any shape in, canonical out
//	POST /api/projects/{projectID}/fields                create a field
//	GET  /api/projects/{projectID}/fields/{fieldID}      canonical layout
//	PUT  /api/projects/{projectID}/fields/{fieldID}      replace a layout
//
// Saves answer with a receipt {"field_id", "ids"} mapping every id sent, per
// entity kind, to its numeric backend identity. Errors answer with {"code", "error"}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/trackmap/pkg/persist"
)

const defaultMaxBody = 32 << 20

// Server serves the field API on top of a [persist.Remote].
type Server struct {
	router  chi.Router
	remote  persist.Remote
	logger  *log.Logger
	token   string
	maxBody int64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithToken requires "Authorization: Bearer <token>" on /api routes.
func WithToken(token string) Option { return func(s *Server) { s.token = token } }

// WithMaxBody limits request bodies to n bytes.
func WithMaxBody(n int64) Option { return func(s *Server) { s.maxBody = n } }

// New creates a server storing fields through remote.
func New(remote persist.Remote, opts ...Option) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		remote:  remote,
		logger:  log.New(io.Discard),
		maxBody: defaultMaxBody,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(requestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.authorize)
		r.Post("/normalize", s.handleNormalize)
		r.Route("/projects/{projectID}/fields", func(r chi.Router) {
			r.Post("/", s.handleCreateField)
			r.Get("/{fieldID}", s.handleGetField)
			r.Put("/{fieldID}", s.handlePutField)
		})
	})
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey struct{}

// RequestID returns the id assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestID honours an incoming X-Request-ID or assigns a new uuid.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
		)
	})
}

func (s *Server) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, errorBody{Code: "UNAUTHORIZED", Error: "missing or invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Lifecycle
// =============================================================================

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("field API listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
