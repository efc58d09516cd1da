// Package http provides the HTTP server and routing for the vault API.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/vaultcode/vaultcode/internal/metrics"
	vaultHTTP "github.com/vaultcode/vaultcode/internal/vault/http"
)

// RouterConfig carries the handlers and policies mounted on the API router.
type RouterConfig struct {
	SecretHandler *vaultHTTP.SecretHandler
	AdminHandler  *vaultHTTP.AdminHandler
	Logger        *slog.Logger
	DB            *sql.DB

	AdminAPIKey string

	RateLimitEnabled bool
	RequestsPerSec   float64
	Burst            int

	CORSEnabled      bool
	CORSAllowOrigins string

	MeterProvider    otelmetric.MeterProvider
	MetricsNamespace string
}

// NewRouter builds the Gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(cfg.Logger))

	if cfg.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, cfg.Logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler(cfg.DB))

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(NewRateLimitMiddleware(cfg.RequestsPerSec, cfg.Burst))
	}

	v1.POST("/secrets", cfg.SecretHandler.CreateOrUpdateHandler)
	v1.POST("/secrets/:id", cfg.SecretHandler.CreateHandler)
	v1.GET("/secrets/:id", cfg.SecretHandler.GetHandler)
	v1.DELETE("/secrets/:id", cfg.SecretHandler.DeleteHandler)

	adminAuth, err := NewAdminAuthMiddleware(cfg.AdminAPIKey, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin auth middleware: %w", err)
	}
	admin := v1.Group("/admin", adminAuth)
	admin.GET("/secrets", cfg.AdminHandler.ListHandler)

	return router, nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func readinessHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server for the given handler.
func NewServer(host string, port int, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the underlying HTTP handler, mainly for tests that want
// to mount it on an httptest.Server.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
