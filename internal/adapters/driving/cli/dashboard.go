package cli

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/storesync/internal/adapters/driving/tui"
)

var (
	dashboardRefresh time.Duration
	dashboardWorker  bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Watch sync progress in a live terminal view",
	Long: `Show per-resource progress and queue depth, refreshed continuously.
Press s to start a sync, F to force one, q to quit.

With --worker the queue is processed in the background while the view is open.`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&dashboardRefresh, "refresh", tui.DefaultRefresh, "refresh interval")
	dashboardCmd.Flags().BoolVar(&dashboardWorker, "worker", false, "process jobs while watching")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) (err error) {
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p, &err)

	app, err := tui.NewApp(&tui.Ports{Sync: p.Sync}, dashboardRefresh)
	if err != nil {
		return err
	}

	workerDone := make(chan error, 1)
	if dashboardWorker {
		go func() { workerDone <- p.Worker.Run(ctx) }()
	} else {
		workerDone <- nil
	}

	program := tea.NewProgram(app.WithContext(ctx),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = program.Run()
	cancel()

	if werr := <-workerDone; werr != nil && !errors.Is(werr, context.Canceled) && err == nil {
		err = werr
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
