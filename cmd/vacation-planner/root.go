package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vacation-planner",
	Short: "Multi-agent vacation planning pipeline",
	Long: `vacation-planner runs a trip query through a pipeline of research,
booking estimate, and assembly agents, pausing at human checkpoints for
budget decisions and cost-reduction approvals.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal-driven cancellation.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(),
		"path to the YAML configuration file")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultConfigPath() string {
	if env := os.Getenv("VACATION_PLANNER_CONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "vacation-planner.yaml"
	}
	return home + "/.vacation-planner/config.yaml"
}
