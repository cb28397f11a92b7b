// Package admin serves a read-only HTTP view of a running RTI kernel.
//
//	GET /healthz                                  liveness and counts
//	GET /federations                              every federation execution
//	GET /federations/{name}                       one federation execution
//	GET /federations/{name}/federates/{handle}    one joined federate
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/version"
)

// DefaultAddress is where the admin API listens unless configured.
const DefaultAddress = "127.0.0.1:8990"

// shutdownTimeout bounds the graceful stop of ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Config configures the admin server.
type Config struct {
	// Address is the HTTP listen address.
	Address string

	// Version is reported by /healthz. Empty reports "dev".
	Version string

	// Logger receives request failures. Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the default admin configuration.
func DefaultConfig() Config {
	return Config{Address: DefaultAddress}
}

// Server is the admin HTTP server.
type Server struct {
	kernel  *rti.Kernel
	config  Config
	logger  *slog.Logger
	router  chi.Router
	started time.Time
}

// Health is the body of /healthz.
type Health struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Protocol    string `json:"protocol"`
	Uptime      string `json:"uptime"`
	Federations int    `json:"federations"`
	Federates   int    `json:"federates"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// New creates an admin server for kernel.
func New(kernel *rti.Kernel, config Config) *Server {
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		kernel:  kernel,
		config:  config,
		logger:  logger,
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", s.handleHealth)
	r.Route("/federations", func(r chi.Router) {
		r.Get("/", s.handleFederations)
		r.Get("/{name}", s.handleFederation)
		r.Get("/{name}/federates/{handle}", s.handleFederate)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, http.StatusNotFound, "no such resource")
	})
	return r
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx ends.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()
	s.logger.Info("admin API listening", "addr", l.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := Health{
		Status:   "ok",
		Version:  s.config.Version,
		Protocol: version.Current,
		Uptime:   time.Since(s.started).Truncate(time.Second).String(),
	}
	for _, name := range s.kernel.FederationNames() {
		if f, ok := s.kernel.Federation(name); ok {
			h.Federations++
			h.Federates += f.MemberCount()
		}
	}
	render.JSON(w, r, h)
}

func (s *Server) handleFederations(w http.ResponseWriter, r *http.Request) {
	feds := s.kernel.Federations()
	if feds == nil {
		feds = []rti.FederationInfo{}
	}
	render.JSON(w, r, feds)
}

func (s *Server) federation(w http.ResponseWriter, r *http.Request) (*rti.Federation, bool) {
	name := chi.URLParam(r, "name")
	f, ok := s.kernel.Federation(name)
	if !ok {
		s.fail(w, r, http.StatusNotFound, "federation execution "+strconv.Quote(name)+" does not exist")
		return nil, false
	}
	return f, true
}

func (s *Server) handleFederation(w http.ResponseWriter, r *http.Request) {
	f, ok := s.federation(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, f.Info())
}

func (s *Server) handleFederate(w http.ResponseWriter, r *http.Request) {
	f, ok := s.federation(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "handle")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "invalid federate handle "+strconv.Quote(raw))
		return
	}
	info, ok := f.Federate(hla.FederateHandle(n))
	if !ok {
		s.fail(w, r, http.StatusNotFound, "federate "+raw+" is not joined to "+f.Name())
		return
	}
	render.JSON(w, r, info)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.logger.Debug("admin request failed", "path", r.URL.Path, "status", status, "error", msg)
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
