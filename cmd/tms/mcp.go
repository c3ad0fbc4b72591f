package main

import (
	"github.com/aretw0/tms/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [config]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts TMS as an MCP Server, exposing the tools load_machine, step, run,
reset and inspect to AI agents.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ServeMCP(hostOptions(cmd, args))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	addHostFlags(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
}
