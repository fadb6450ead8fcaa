// Package httpd implements the `goclone httpd` command: the HTTP API server
// over the clone service.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/goclone/cmd/common"
	"github.com/jonesrussell/goclone/internal/api"
)

const shutdownTimeout = 15 * time.Second

// Command returns the httpd command.
func Command(opts func() common.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.BuildDeps(opts())
			if err != nil {
				return err
			}

			server := api.NewServer(
				deps.Config.Server,
				deps.Service,
				deps.Config.Clone.PublicDir,
				deps.Logger.WithComponent("api"),
			)

			errChan := make(chan error, 1)
			go func() {
				if serveErr := server.Start(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
					errChan <- serveErr
				}
			}()

			return runUntilInterrupt(server, deps, errChan)
		},
	}
}

// runUntilInterrupt blocks until a shutdown signal or a server error, then
// shuts the server down gracefully.
func runUntilInterrupt(server *api.Server, deps *common.Deps, errChan chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serveErr := <-errChan:
		deps.Logger.Error("server error", "error", serveErr)
		return fmt.Errorf("server error: %w", serveErr)
	case sig := <-sigChan:
		deps.Logger.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
	}

	return nil
}
