// Package server exposes a data directory over read-only HTTP.
//
// Every request loads the directory afresh; nothing is cached between
// requests, so edits on disk show up on the next request.
//
// Routes:
//
//	GET /healthz   liveness and build info
//	GET /data      the full aggregate
//	GET /data/*    the sub-tree at a "/"-separated key path
//	GET /keys      the planned entries: key, file and format
//
// Errors are rendered as {"code": "...", "message": "..."}.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/quaff/pkg/buildinfo"
	"github.com/matzehuels/quaff/pkg/errors"
	"github.com/matzehuels/quaff/pkg/keypath"
	"github.com/matzehuels/quaff/pkg/observability"
	"github.com/matzehuels/quaff/pkg/quaff"
)

// RequestIDHeader carries the request ID on every response.
const RequestIDHeader = "X-Request-ID"

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":8080"

const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	Addr   string
	Root   string
	Loader *quaff.Loader
	Logger *log.Logger
}

// Server serves one data directory.
type Server struct {
	addr   string
	root   string
	loader *quaff.Loader
	logger *log.Logger
	router chi.Router
}

// New creates a Server. A nil Loader or Logger is replaced by a default.
func New(cfg Config) *Server {
	s := &Server{
		addr:   cfg.Addr,
		root:   cfg.Root,
		loader: cfg.Loader,
		logger: cfg.Logger,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.loader == nil {
		s.loader = quaff.New(quaff.Options{Logger: s.logger})
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/data", s.handleData)
	r.Get("/data/*", s.handleData)
	r.Get("/keys", s.handleKeys)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler for the server's routes.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe listens on the configured address and serves until ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", "root", s.root, "addr", ln.Addr().String())
		if err := srv.Serve(ln); !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	data, err := s.loader.Load(r.Context(), s.root)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	key := splitKey(chi.URLParam(r, "*"))
	v, ok := keypath.Get(data, key)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no value at key %q", key.String()))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type keyEntry struct {
	Key    string   `json:"key"`
	Path   []string `json:"path"`
	File   string   `json:"file"`
	Format string   `json:"format"`
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	plan, err := s.loader.Plan(r.Context(), s.root)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entries := make([]keyEntry, len(plan))
	for i, e := range plan {
		entries[i] = keyEntry{
			Key:    e.Key.String(),
			Path:   e.Key,
			File:   e.File.Rel,
			Format: e.Format,
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("load failed", "root", s.root, "request_id", w.Header().Get(RequestIDHeader), "err", err)
	writeError(w, err)
}

// splitKey turns "animals/mammals/" into [animals mammals].
func splitKey(raw string) keypath.Path {
	var p keypath.Path
	for _, seg := range strings.Split(raw, "/") {
		if seg != "" {
			p = append(p, seg)
		}
	}
	return p
}

// requestID tags each response with the caller's X-Request-ID, or a new one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", w.Header().Get(RequestIDHeader),
			"duration", d.Round(time.Microsecond))
	})
}
