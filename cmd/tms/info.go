package main

import (
	"github.com/aretw0/tms/internal/cli"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [config]",
	Short: "Describe a machine",
	Long:  `Prints the initial state, halt state, tape, head position and the numbered instruction list.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return cli.Info(sharedOptions(cmd, args), format)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text, markdown, yaml or json")
}
