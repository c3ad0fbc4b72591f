package main

import (
	"github.com/aretw0/tms/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config]",
	Short: "Check a machine for consistency",
	Long: `Loads the configuration and reports a missing halt state, an empty tape,
unreachable states and instructions shadowed by an earlier rule.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return cli.Validate(sharedOptions(cmd, args), format)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: text, yaml or json")
}
