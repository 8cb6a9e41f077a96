// Package liveness serves the uptime probe the hosting platform polls.
package liveness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AliveMessage is the body returned by the probe route.
const AliveMessage = "Bot is alive"

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Server is a minimal HTTP server answering GET and HEAD on "/".
type Server struct {
	addr   string
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a liveness server listening on all interfaces at port.
func NewServer(port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "liveness")

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	alive := func(c *gin.Context) {
		c.String(http.StatusOK, AliveMessage)
	}
	r.GET("/", alive)
	r.HEAD("/", alive)

	return &Server{
		addr:   fmt.Sprintf(":%d", port),
		router: r,
		logger: log,
	}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully. Bind and
// serve failures are logged and Run returns nil so the relay keeps running.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to bind liveness endpoint", "addr", s.addr, "error", err)
		return nil
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.InfoContext(ctx, "Liveness endpoint listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "Liveness endpoint stopped", "error", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.ErrorContext(ctx, "Error shutting down liveness endpoint", "error", err)
	} else {
		s.logger.InfoContext(ctx, "Liveness endpoint stopped")
	}
	return nil
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.DebugContext(c.Request.Context(), "Liveness request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
