package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tms/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tms",
	Short: "TMS is a Turing machine simulator",
	Long: `TMS loads a single-tape Turing machine from a plain text configuration
and runs it step by step, in batch, in an interactive dashboard, or as a
multi-session HTTP or MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("conf", "c", "", "TMS configuration file path")
	rootCmd.PersistentFlags().Bool("debug", false, "Log engine events to stderr")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")
	rootCmd.PersistentFlags().String("blank", "_", "Symbol written when the tape grows to the right")
	rootCmd.PersistentFlags().Bool("indexed", false, "Match instructions through a (state, symbol) index")
}

// sharedOptions reads the persistent flags. A positional argument stands in
// for --conf when the flag is not set.
func sharedOptions(cmd *cobra.Command, args []string) cli.Options {
	conf, _ := cmd.Flags().GetString("conf")
	if !cmd.Flags().Changed("conf") && len(args) > 0 {
		conf = args[0]
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logFile, _ := cmd.Flags().GetString("log-file")
	blank, _ := cmd.Flags().GetString("blank")
	indexed, _ := cmd.Flags().GetBool("indexed")

	return cli.Options{
		ConfPath: conf,
		Debug:    debug,
		LogFile:  logFile,
		Blank:    blank,
		Indexed:  indexed,
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
	}
}
