package main

import (
	"github.com/aretw0/tms/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [config]",
	Short: "Export the state graph visualization",
	Long:  `Outputs a Mermaid diagram (graph LR) of the states and instructions of a machine.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Graph(sharedOptions(cmd, args))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
