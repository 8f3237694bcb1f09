package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowshift",
	Short: "FlowShift EA dashboard backend",
	Long: `FlowShift serves the EA dashboard: simulated price series with SHI
channels, a live quote table, the robot source listing and an AI advisor.

Commands:
  serve   run the HTTP/WebSocket API
  series  print one simulated price series
  quotes  print ticker steps to the terminal`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
