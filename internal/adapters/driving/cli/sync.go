package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driving"
	"github.com/custodia-labs/storesync/internal/logger"
)

var (
	syncResource string
	syncForce    bool
	syncDrain    bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Start a full sync of the catalog",
	Long: `Register the store with the marketing API and enqueue the first page of
every resource chain. Products chain into orders; customers, carts and list
members start independently.

Without --drain the jobs stay queued for 'storesync worker'.`,
	Example: `  storesync sync
  storesync sync --resource customers
  storesync sync --force --drain`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncResource, "resource", "r", "", "sync a single resource chain")
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "ignore the resync window and queued jobs")
	syncCmd.Flags().BoolVar(&syncDrain, "drain", false, "process the queue before exiting")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) (err error) {
	ctx := commandContext(cmd)

	syncOpts := driving.SyncOptions{Force: syncForce}
	if syncResource != "" {
		resource, perr := domain.ParseResourceType(syncResource)
		if perr != nil {
			return perr
		}
		syncOpts.Resource = resource
	}

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p, &err)

	logger.Section("Sync")
	jobs, err := p.Sync.StartFullSync(ctx, syncOpts)
	if errors.Is(err, domain.ErrSyncInProgress) {
		return fmt.Errorf("%w: run 'storesync worker' to finish it or pass --force", err)
	}
	if err != nil {
		return fmt.Errorf("start sync: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("Nothing to sync: every resource completed within the resync window.")
		return nil
	}
	for _, job := range jobs {
		logger.Debug("enqueued %s page %d (run %s)", job.Resource, job.Page, job.RunID)
		cmd.Printf("Queued %s from page %d\n", job.Resource, job.Page)
	}

	if !syncDrain {
		cmd.Println("Run 'storesync worker' to process the queue.")
		return nil
	}

	n, err := p.Worker.Drain(ctx)
	if err != nil {
		return fmt.Errorf("drain queue: %w", err)
	}
	cmd.Printf("Processed %d jobs\n", n)
	return printStatus(cmd, p)
}
