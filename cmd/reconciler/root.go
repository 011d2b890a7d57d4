package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"fleet-reconciliation/internal/config"
	"fleet-reconciliation/internal/gateway"
	"fleet-reconciliation/internal/logger"
	"fleet-reconciliation/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "DOT number power units discrepancy checker",
	Long: `Reconciler checks "DOT number, power units" pairs against the public
FMCSA census dataset and reports every record whose power units differ.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// reportedError marks a failure the command already showed to the user.
// Execute turns it into an exit code without logging it again.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		var reported *reportedError
		if errors.As(err, &reported) {
			os.Exit(1)
		}
		// Console encoding at debug level gives readable ISO8601 timestamps for a CLI
		l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing the optional .env file")
}

// app is the wired dependency graph shared by all subcommands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	useCase *usecase.ReconciliationUseCase
	cache   *gateway.CachedRecordRepository // nil when caching is disabled
}

// newApp loads configuration and wires the pipeline.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 1. Create the repository (the outermost layer)
	var repo usecase.RecordRepository = gateway.NewSocrataRecordRepository(&http.Client{}, cfg.Dataset, cfg.Fetch, l)

	// 2. Memoize fetches for the lifetime of this process
	var cache *gateway.CachedRecordRepository
	if cfg.Cache.Enabled {
		cache = gateway.NewCachedRecordRepository(repo, cfg.Cache.TTL, cfg.Fetch.Timeout, l)
		repo = cache
	}

	// 3. Create the usecase and inject its collaborators (the core logic layer)
	uc := usecase.NewReconciliationUseCase(gateway.NewTextInputParser(), repo, cfg.Fetch.Timeout, l)

	return &app{cfg: cfg, logger: l, useCase: uc, cache: cache}, nil
}
