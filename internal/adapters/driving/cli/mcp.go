package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storesync/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can check sync
progress and start syncs.

By default the server speaks JSON-RPC over stdio. Use --port to serve HTTP
instead.

Examples:
  # Stdio mode
  storesync mcp serve

  # HTTP mode
  storesync mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) (err error) {
	ctx := commandContext(cmd)

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p, &err)

	server, err := mcp.NewServer(&mcp.Ports{Sync: p.Sync}, version, mcp.WithLogger(p.Log))
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
