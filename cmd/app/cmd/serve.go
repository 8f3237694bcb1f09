package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"FlowShift/internal/di"
	"FlowShift/pkg/config"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API until interrupted",
	Long: `Serve loads the YAML config (environment variables override it), wires
every component and blocks until SIGINT or SIGTERM.

Example:
  flowshift serve --config config/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "config/config.yaml", "config file path")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnv(serveConfigPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	return app.Run()
}
