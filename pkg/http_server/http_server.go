package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultReadHeaderTimeout = 10 * time.Second

type HTTPServer struct {
	server *http.Server
}

type Option func(*HTTPServer)

func NewHTTPServer(handler http.Handler, options ...Option) *HTTPServer {
	srv := &HTTPServer{
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
		},
	}

	for _, opt := range options {
		opt(srv)
	}

	return srv
}

func WithAddress(address string) Option {
	return func(srv *HTTPServer) {
		srv.server.Addr = address
	}
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return func(srv *HTTPServer) {
		srv.server.ReadHeaderTimeout = d
	}
}

// WithMiddleware wraps the handler in order, so the last middleware given
// runs first.
func WithMiddleware(middlewares ...func(http.Handler) http.Handler) Option {
	return func(srv *HTTPServer) {
		for _, middleware := range middlewares {
			srv.server.Handler = middleware(srv.server.Handler)
		}
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks until the server stops. A clean Stop is not an error.
func (s *HTTPServer) Start() error {
	slog.Info("Starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	slog.Info("Stopping HTTP server", "address", s.server.Addr)
	return s.server.Shutdown(ctx)
}
