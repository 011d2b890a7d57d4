package main

import (
	"os"
	"os/signal"
	"syscall"

	"fleet-reconciliation/internal/handler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP check server",
	Long:  `Starts the HTTP server exposing POST /check, DELETE /cache and GET /health.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		logg := a.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// A nil *CachedRecordRepository must not become a non-nil interface
		var purger handler.CachePurger
		if a.cache != nil {
			purger = a.cache
		}

		app := handler.NewApp(handler.NewHandler(a.useCase, purger, logg), logg)

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server",
				zap.String("port", a.cfg.Server.Port),
				zap.String("dataset", a.cfg.Dataset.ID),
				zap.Bool("cache", a.cfg.Cache.Enabled),
			)
			errCh <- app.Listen(":" + a.cfg.Server.Port)
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-c:
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
