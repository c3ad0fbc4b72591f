package main

import (
	"github.com/aretw0/tms/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [config]",
	Short: "Start the multi-session HTTP server",
	Long: `Hosts many machines behind a REST API, one per session, with Prometheus
metrics on /metrics. A configuration given with --conf is preloaded as the
session "default".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Serve(hostOptions(cmd, args))
	},
}

func hostOptions(cmd *cobra.Command, args []string) cli.HostOptions {
	port, _ := cmd.Flags().GetInt("port")
	redisURL, _ := cmd.Flags().GetString("redis")
	storeDir, _ := cmd.Flags().GetString("store")
	transport, _ := cmd.Flags().GetString("transport")

	return cli.HostOptions{
		Options:   sharedOptions(cmd, args),
		Port:      port,
		RedisURL:  redisURL,
		StoreDir:  storeDir,
		Transport: transport,
	}
}

func addHostFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	cmd.Flags().String("redis", "", "Redis URL for snapshots and distributed locks (e.g. redis://localhost:6379/0)")
	cmd.Flags().String("store", "", "Directory for snapshot files (default: in memory)")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addHostFlags(serveCmd)
}
