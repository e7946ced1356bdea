// Package startup boots the storefront service
package startup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/motonorte/storefront-go/internal/application/container"
	"github.com/motonorte/storefront-go/internal/presentation/http/server"
)

// Run builds the application, starts serving, and blocks until SIGINT
// or SIGTERM triggers a graceful shutdown.
func Run() error {
	ctn, err := container.NewContainer()
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	go ctn.SyncHub.Run()

	srv := server.New(ctn)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		ctn.Logger.Shutdown().Info("Signal received, shutting down", "signal", sig.String())
		return srv.Shutdown(context.Background())
	}
}
