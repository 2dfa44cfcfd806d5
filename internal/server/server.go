package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server wraps an http.Server along with the logger used to report its
// lifecycle, shared by both the policy and telemetry services.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving HTTP requests. Blocks until Shutdown is called or
// an unrecoverable error occurs.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// wrapChain applies the common middleware chain, outermost first:
// request ID -> security headers -> logging -> tracing -> auth -> recovery -> handler.
func wrapChain(logger *slog.Logger, token string, mux http.Handler) http.Handler {
	handler := recoveryMiddleware(logger, mux)
	handler = authMiddleware(token, handler)
	handler = tracingMiddleware(handler)
	handler = loggingMiddleware(logger, handler)
	handler = securityHeadersMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func newHTTPServer(port int, readTimeout, writeTimeout time.Duration, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  2 * readTimeout,
		},
		handler: handler,
		logger:  logger,
	}
}
