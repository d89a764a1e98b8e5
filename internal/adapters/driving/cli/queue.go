package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// buriedInspector is implemented by queues that keep buried job reasons.
type buriedInspector interface {
	BuriedReason(ctx context.Context, jobID string) (string, error)
}

// purger is implemented by queues that retain finished jobs.
type purger interface {
	Purge(ctx context.Context, before time.Time) (int, error)
}

var purgeOlderThan time.Duration

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect the job queue",
}

var queueStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show job counts by status",
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		ctx := commandContext(cmd)
		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closePipeline(p, &err)

		stats, err := p.Queue.Stats(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("pending  %d\n", stats.Pending)
		cmd.Printf("running  %d\n", stats.Running)
		cmd.Printf("done     %d\n", stats.Done)
		cmd.Printf("buried   %d\n", stats.Buried)
		return nil
	},
}

var queueBuriedCmd = &cobra.Command{
	Use:   "buried <job-id>",
	Short: "Show why a job was buried",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx := commandContext(cmd)
		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closePipeline(p, &err)

		q, ok := p.Queue.(buriedInspector)
		if !ok {
			return errors.New("this queue backend does not keep buried jobs")
		}
		reason, err := q.BuriedReason(ctx, args[0])
		if err != nil {
			return fmt.Errorf("job %s: %w", args[0], err)
		}
		cmd.Println(reason)
		return nil
	},
}

var queuePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete finished jobs",
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		ctx := commandContext(cmd)
		p, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closePipeline(p, &err)

		q, ok := p.Queue.(purger)
		if !ok {
			cmd.Println("This queue backend does not retain finished jobs.")
			return nil
		}
		n, err := q.Purge(ctx, time.Now().Add(-purgeOlderThan))
		if err != nil {
			return err
		}
		cmd.Printf("Purged %d jobs\n", n)
		return nil
	},
}

func init() {
	queuePurgeCmd.Flags().DurationVar(&purgeOlderThan, "older-than", 24*time.Hour, "keep jobs enqueued more recently than this")

	queueCmd.AddCommand(queueStatsCmd)
	queueCmd.AddCommand(queueBuriedCmd)
	queueCmd.AddCommand(queuePurgeCmd)
	rootCmd.AddCommand(queueCmd)
}
