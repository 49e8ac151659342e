package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/faustbox/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "faustbox",
	Short: "faustbox compiles box diagrams into signal factories",
	Long: `faustbox builds Faust-style box diagrams described as YAML or JSON documents,
compiles them into signal graphs and caches the resulting factories by SHA key.`,
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
	rootCmd.PersistentFlags().String("dir", "", "Directory of the diagram library (markdown/YAML/JSON documents)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	rootCmd.PersistentFlags().String("store", "memory", "Factory cache backend: memory, file or redis")
	rootCmd.PersistentFlags().String("store-path", "", "Directory of the file cache (default .faustbox/factories)")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address (redis cache)")
	rootCmd.PersistentFlags().String("redis-password", "", "Redis password (redis cache)")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis database (redis cache)")
	rootCmd.PersistentFlags().Duration("redis-ttl", 0, "Expiration of cached factories (redis cache, 0 keeps them)")
}

// newLogger builds the application logger from the persistent flags.
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(level, format, cmd.ErrOrStderr())
}
