package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cityexchange-go/internal/models"

	"go.uber.org/zap"
)

// Server owns the HTTP listener for the intake API
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

func NewServer(h *Handler, cfg models.ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(h, cfg, zap.L()),
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		zap.L().Info("HTTP API listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	zap.L().Info("Shutting down HTTP API")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return nil
}
