// Package serve runs the HTTP API server.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pyarchinit/archweb/internal/api"
	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/datastore"
	"github.com/pyarchinit/archweb/internal/export"
	"github.com/pyarchinit/archweb/internal/logging"
	"github.com/pyarchinit/archweb/internal/media"
	"github.com/pyarchinit/archweb/internal/report"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server",
		Long:  "Start the HTTP API server and serve requests until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	cmd.Flags().StringVar(&settings.Web.Host, "host", viper.GetString("web.host"), "Interface to bind, empty for all")
	cmd.Flags().IntVar(&settings.Web.Port, "port", viper.GetInt("web.port"), "TCP port for the API server")
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		fmt.Printf("error binding flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

func runServer(settings *conf.Settings) error {
	logger := logging.ForService("serve")

	ds, err := datastore.New(settings)
	if err != nil {
		return fmt.Errorf("failed to create datastore: %w", err)
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	var resolver *media.Resolver
	if settings.Storage.URL != "" {
		resolver = media.NewResolver(settings)
	} else {
		logger.Warn("storage.url not configured, media lookups disabled")
	}

	assembler := report.NewAssembler(ds, resolver)
	renderer := export.NewRenderer(settings)

	e := echo.New()
	e.HideBanner = true
	api.New(e, ds, settings, assembler, resolver, renderer)

	addr := fmt.Sprintf("%s:%d", settings.Web.Host, settings.Web.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
