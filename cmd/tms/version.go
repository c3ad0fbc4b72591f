package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tms"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tms",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tms version %s\n", strings.TrimSpace(tms.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
