package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync progress and queue depth",
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		p, err := openPipeline(commandContext(cmd))
		if err != nil {
			return err
		}
		defer closePipeline(p, &err)
		return printStatus(cmd, p)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(cmd *cobra.Command, p *Pipeline) error {
	status, err := p.Sync.Status(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}

	cmd.Printf("Store: %s\n\n", status.StoreID)
	if len(status.Resources) == 0 {
		cmd.Println("No sync has run yet.")
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RESOURCE\tPAGES\tSUCCEEDED\tFAILED\tCOMPLETED")
		for _, r := range status.Resources {
			completed := "-"
			if r.IsComplete(r.RunID) {
				completed = r.CompletedAt.Local().Format(time.DateTime)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", r.Resource, r.PagesDone, r.Succeeded, r.Failed, completed)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	q := status.Queue
	cmd.Printf("\nQueue: %d pending, %d running, %d done, %d buried\n", q.Pending, q.Running, q.Done, q.Buried)
	return nil
}
