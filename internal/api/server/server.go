package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/adapter"
	"github.com/feral-file/ff-project-intel/internal/api/middleware"
	"github.com/feral-file/ff-project-intel/internal/api/rest"
	"github.com/feral-file/ff-project-intel/internal/api/shared/executor"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

// Config holds the server configuration
type Config struct {
	Debug             bool
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	CORSOrigins       []string
	Auth              middleware.AuthConfig
	RequestsPerMinute int
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	executor   executor.Executor
	limiter    adapter.RedisRateLimiter
	httpServer *http.Server
}

// New creates a new API server. A nil limiter disables rate limiting.
func New(cfg Config, exec executor.Executor, limiter adapter.RedisRateLimiter) *Server {
	return &Server{
		config:   cfg,
		executor: exec,
		limiter:  limiter,
	}
}

// Router builds the gin engine with every middleware and route
func (s *Server) Router() *gin.Engine {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.CORSOrigins))

	var guards []gin.HandlerFunc
	if s.config.Auth.Enabled() {
		guards = append(guards, middleware.Auth(s.config.Auth))
	} else {
		logger.Warn("No API credentials configured, /api/v1 is open")
	}
	if s.limiter != nil && s.config.RequestsPerMinute > 0 {
		guards = append(guards, middleware.RateLimit(s.limiter, s.config.RequestsPerMinute))
	}

	rest.SetupRoutes(router, rest.NewHandler(s.executor), guards...)

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
