// Package cli implements the storesync command line on cobra.
package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
	"github.com/custodia-labs/storesync/internal/logger"
)

var version = "dev"

// Options are the global flags handed to the bootstrap function.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// LogLevel overrides log.level from the settings.
	LogLevel string

	// Verbose enables trace output on stderr.
	Verbose bool

	// Concurrency overrides sync.concurrency when positive.
	Concurrency int
}

// Runtime is the composed application the commands drive.
type Runtime struct {
	// Settings is always available, even without a valid configuration.
	Settings driving.SettingsService

	// Open builds the sync pipeline. It fails when the settings are incomplete.
	Open func(ctx context.Context) (*Pipeline, error)
}

// QueueInspector reports queue depth.
type QueueInspector interface {
	Stats(ctx context.Context) (domain.QueueStats, error)
}

// Pinger checks API reachability.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// Pipeline holds the services behind sync, worker and status.
type Pipeline struct {
	Sync         driving.SyncOrchestrator
	Worker       driving.Worker
	Queue        QueueInspector
	API          Pinger
	Catalog      driven.CatalogStore
	NewScheduler func(interval time.Duration) driving.Scheduler
	Close        func() error

	// Log is the pipeline's structured logger. Nil discards.
	Log *zap.Logger
}

var (
	opts      Options
	bootstrap func(Options) (*Runtime, error)
	app       *Runtime
)

var rootCmd = &cobra.Command{
	Use:   "storesync",
	Short: "Sync a commerce catalog to a marketing API",
	Long: `storesync pushes products, orders, customers, carts and list members
from a local catalog to a marketing platform's e-commerce API.

Sync work is queued as one job per page and processed by 'storesync worker'.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.storesync)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "print trace output")
}

// Execute runs the root command with the given version and bootstrap function.
func Execute(v string, boot func(Options) (*Runtime, error)) error {
	version = v
	bootstrap = boot
	return rootCmd.Execute()
}

// ExecuteContext is Execute with a context for cancellation on signals.
func ExecuteContext(ctx context.Context, v string, boot func(Options) (*Runtime, error)) error {
	version = v
	bootstrap = boot
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	if app != nil {
		return nil
	}
	if bootstrap == nil {
		return errors.New("storesync is not configured")
	}
	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	app = rt
	return nil
}

// settingsService returns the settings service of the runtime.
func settingsService() (driving.SettingsService, error) {
	if app == nil || app.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return app.Settings, nil
}

// openPipeline builds the pipeline. Callers must call Close on it.
func openPipeline(ctx context.Context) (*Pipeline, error) {
	if app == nil || app.Open == nil {
		return nil, errors.New("sync pipeline not configured")
	}
	return app.Open(ctx)
}

// closePipeline closes p, keeping the first error.
func closePipeline(p *Pipeline, err *error) {
	if p.Close == nil {
		return
	}
	if cerr := p.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
