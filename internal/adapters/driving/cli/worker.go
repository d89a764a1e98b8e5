package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/storesync/internal/logger"
)

var (
	workerOnce     bool
	workerSchedule time.Duration
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued sync jobs",
	Long: `Dequeue and run sync jobs until interrupted. Each job processes one page
of one resource and enqueues the next page itself.

With --schedule the worker also starts a full sync on that interval.`,
	Example: `  storesync worker
  storesync worker --once
  storesync worker --concurrency 4 --schedule 1h`,
	RunE: runWorker,
}

func init() {
	workerCmd.Flags().BoolVar(&workerOnce, "once", false, "exit when the queue is empty")
	workerCmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "c", 0, "jobs to run at once (default sync.concurrency)")
	workerCmd.Flags().DurationVar(&workerSchedule, "schedule", 0, "start a full sync on this interval")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) (err error) {
	ctx := commandContext(cmd)

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p, &err)

	if workerOnce {
		n, derr := p.Worker.Drain(ctx)
		if derr != nil {
			return derr
		}
		cmd.Printf("Processed %d jobs\n", n)
		return nil
	}

	logger.Info("worker started")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if rerr := p.Worker.Run(gctx); !errors.Is(rerr, context.Canceled) {
			return rerr
		}
		return nil
	})
	if workerSchedule > 0 && p.NewScheduler != nil {
		sched := p.NewScheduler(workerSchedule)
		g.Go(func() error {
			if serr := sched.Start(gctx); !errors.Is(serr, context.Canceled) {
				return serr
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return sched.Stop()
		})
	}
	err = g.Wait()
	logger.Info("worker stopped")
	return err
}
