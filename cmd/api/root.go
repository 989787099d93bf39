package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/Coursely/internal/config"
	"github.com/markdave123-py/Coursely/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "coursely",
	Short:         "Training module service",
	Long:          "Coursely turns internal documents into short lessons with a quiz and answers questions about them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCoursesCmd)
}

func setup() (*config.Config, *logger.Logger, error) {
	cfg := config.LoadConfig()
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
