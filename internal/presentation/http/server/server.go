// Package server hosts the storefront HTTP service
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/presentation/http/routes"
	"github.com/motonorte/storefront-go/pkg/config"
)

// Server wraps the HTTP server and its dependency container.
type Server struct {
	httpServer *http.Server
	container  *container.Container
}

// New builds the server with routes registered.
func New(ctn *container.Container) *Server {
	if gin.Mode() == gin.DebugMode && config.LogJSONFormat {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, ctn)

	return &Server{
		httpServer: &http.Server{
			Addr:        ":" + config.Port,
			Handler:     router,
			ReadTimeout: config.ServerReadTimeout,
			// No write timeout: the SSE and websocket endpoints hold
			// their connections open indefinitely.
			WriteTimeout: 0,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		container: ctn,
	}
}

// Start begins serving. It blocks until the listener fails or the
// server is shut down.
func (s *Server) Start() error {
	s.container.Logger.Startup().Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the container.
func (s *Server) Shutdown(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("HTTP server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.container.Close()
}
