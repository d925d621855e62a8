// Package api hosts the ledger over HTTP for browser and script clients.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/debtbook/config"
	"github.com/rustyeddy/debtbook/internal/api/handler"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger          *slog.Logger
	httpServer      *http.Server
	httpRouter      *gin.Engine
	shutdownTimeout time.Duration
}

// NewServer creates and configures a new HTTP server around h.
func NewServer(log *slog.Logger, cfg config.ServerConfig, h *handler.DebtorHandler) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	httpRouter := gin.New()
	setupRouter(log, httpRouter, h)

	timeout, err := cfg.ShutdownDuration()
	if err != nil {
		timeout = 10 * time.Second
	}

	return &Server{
		logger: log,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           httpRouter,
			ReadHeaderTimeout: 10 * time.Second,
		},
		httpRouter:      httpRouter,
		shutdownTimeout: timeout,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
