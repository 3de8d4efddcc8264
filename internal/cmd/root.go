// Package cmd wires the cobra command tree and its shared logging/config
// setup, generalized from the teacher's internal/cmd/root.go (same
// cobra.OnInitialize/viper shape, renamed flags/env prefix for this
// pipeline's two subcommands).
package cmd

import (
	"fmt"
	"os"
	"strings"

	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DaxServer/geocode-commons-categories/internal/config"
)

var cfgFile string
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "geocode-import",
	Short: "Reverse-geocoding boundary import pipeline",
	Long: `geocode-import discovers OpenStreetMap administrative boundary relations
for a country, assembles their polygon geometry, enriches them with
Wikimedia Commons category metadata from Wikidata, and persists the result
into a spatially-indexed Postgres/PostGIS store.`,
}

// Execute runs the command tree, exiting the process on failure (spec.md
// §6: exit 0 on success, 1 on any country failure, 2 on configuration
// error — the exit code distinction is made by each subcommand's RunE).
func Execute() {
	if logger == nil {
		initLogging() // fallback in case cobra init didn't fire
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initConfig() {
	config.Init(cfgFile)
	if cfgFile == "" {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		_ = viper.ReadInConfig()
	}
}

func initLogging() {
	levelStr := strings.ToLower(viper.GetString("log-level"))
	level := slog.LevelInfo
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error", "err":
		level = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Unknown log level %q, defaulting to info\n", levelStr)
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
