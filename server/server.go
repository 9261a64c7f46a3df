// Package server serves the landing page directory for local testing.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"twixsite/config"
)

// ErrPortInUse is returned by Listen when another process holds the port
var ErrPortInUse = errors.New("port already in use")

// Server serves a directory tree over HTTP
type Server struct {
	cfg    *config.Config
	root   string
	port   int
	log    *log.Logger
	router chi.Router
}

// NewServer creates a static file server for root
func NewServer(cfg *config.Config, root string, port int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	s := &Server{
		cfg:  cfg,
		root: root,
		port: port,
		log:  logger,
	}
	s.router = s.buildRouter()
	return s
}

// Port returns the port the server binds to
func (s *Server) Port() int {
	return s.port
}

// Handler returns the HTTP handler serving the directory
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(s.log))
	// Headers wraps Recoverer so 500s from recovered panics carry them too
	r.Use(Headers(s.cfg.Server.Headers))
	r.Use(middleware.Recoverer)

	r.Handle("/*", http.FileServer(http.Dir(s.root)))

	return r
}

// Listen binds the configured port on all interfaces
func (s *Server) Listen() (net.Listener, error) {
	addr := net.JoinHostPort("", strconv.Itoa(s.port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("%w: %d", ErrPortInUse, s.port)
		}
		return nil, err
	}

	return ln, nil
}

// Serve handles connections on ln until ctx is cancelled, then shuts down gracefully.
// A clean shutdown returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
