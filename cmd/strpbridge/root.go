package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/strpbridge/internal/config"
	"github.com/aretw0/strpbridge/internal/logging"
	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "strpbridge",
	Short: "strpbridge is a loopback control plane for a multiplayer game client",
	Long: `strpbridge exposes a tiny HTTP API on 127.0.0.1 that lets a companion
process queue connect requests and read the local-to-remote entity id map.
Requests are applied on the simulation tick, never on the HTTP goroutine.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")
}

// loadConfig reads --config and applies --log-level on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	if level != "" {
		cfg.LogLevel = level
	}

	logLevel, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	logger := logging.NewWithWriter(os.Stderr, logLevel)
	return cfg, logger, nil
}
