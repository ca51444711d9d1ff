package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	healthTimeout   = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	Engine *gin.Engine
	Addr   string
	checks map[string]HealthChecker
}

// HealthChecker is an interface for components that can report their health status.
// *sql.DB satisfies it.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithHealthCheck adds a named dependency to the /health report.
func WithHealthCheck(name string, checker HealthChecker) Option {
	return func(s *Server) {
		if checker != nil {
			s.checks[name] = checker
		}
	}
}

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Engine.GET("/metrics", gin.WrapH(h))
	}
}

func New(addr string, mode string, opts ...Option) *Server {
	// Set Gin mode based on configuration
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		Engine: r,
		Addr:   addr,
		checks: make(map[string]HealthChecker),
	}
	for _, opt := range opts {
		opt(s)
	}

	r.GET("/health", s.healthHandler)

	return s
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	report := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := s.checks[name].PingContext(ctx); err != nil {
			slog.Error("[Server] Health check failed", "dependency", name, "error", err)
			report[name] = "unreachable"
			healthy = false
			continue
		}
		report[name] = "connected"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"checks": report,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"checks": report,
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("[Server] Starting HTTP server", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("[Server] Stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Server] HTTP server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
