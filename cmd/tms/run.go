package main

import (
	"github.com/aretw0/tms"
	"github.com/aretw0/tms/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "Run a machine until it halts",
	Long: `Loads the configuration and prints the tape before the first step and after
every step until the machine reaches its halt state.

With --interactive, opens a dashboard instead:
  r run, p pause, s step, x reset (reload the file), q quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		interactive, _ := cmd.Flags().GetBool("interactive")
		delay, _ := cmd.Flags().GetDuration("delay")
		quiet, _ := cmd.Flags().GetBool("quiet")

		return cli.Run(cli.RunOptions{
			Options:     sharedOptions(cmd, args),
			MaxSteps:    maxSteps,
			Interactive: interactive,
			Delay:       delay,
			Quiet:       quiet,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("max-steps", tms.DefaultMaxSteps, "Stop after this many steps (0 for no bound)")
	runCmd.Flags().BoolP("interactive", "i", false, "Open the interactive dashboard")
	runCmd.Flags().Duration("delay", 0, "Pause between steps (dashboard tick when interactive, default 250ms)")
	runCmd.Flags().BoolP("quiet", "q", false, "Print only the tapes")

	// Make 'run' the default if no command is provided
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
	rootCmd.Args = cobra.MaximumNArgs(1)
}
