package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/michael-freling/testcase-generator/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Options configures the backend server
type Options struct {
	Addr           string
	Structured     bool
	AllowedOrigins []string
}

// Server is the reference test case API
type Server struct {
	options Options
	handler http.Handler
	logger  logging.Logger
}

// NewServer builds the router and middleware chain.
// Middleware wraps the whole router and also sees requests no route matches.
func NewServer(options Options, logger logging.Logger) *Server {
	r := mux.NewRouter()
	NewHandler(options.Structured, logger).RegisterRoutes(r)

	var handler http.Handler = r
	handler = CORSMiddleware(options.AllowedOrigins)(handler)
	handler = LoggingMiddleware(logger)(handler)

	return &Server{
		options: options,
		handler: handler,
		logger:  logger,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on the configured address until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.options.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", listener.Addr().String(), "structured", s.options.Structured)
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
