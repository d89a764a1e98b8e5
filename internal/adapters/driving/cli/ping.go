package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errUnreachable = errors.New("marketing API unreachable")

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the marketing API accepts the configured key",
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		p, err := openPipeline(commandContext(cmd))
		if err != nil {
			return err
		}
		defer closePipeline(p, &err)

		if !p.API.Ping(commandContext(cmd)) {
			return errUnreachable
		}
		cmd.Println("Marketing API reachable.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
