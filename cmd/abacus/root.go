package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/abacus/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "abacus",
	Short: "Abacus is a scientific calculator engine",
	Long: `Abacus interprets key presses (digits, operators, functions, memory keys)
as a deterministic state machine. Use it interactively, one-shot from scripts,
over HTTP or as an MCP server.`,
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
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("store", "", "Session store backend: memory, file, redis")
}

// setup builds the command environment from the persistent flags.
func setup(cmd *cobra.Command, opts cli.Options) (*cli.Env, error) {
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	opts.Store, _ = cmd.Flags().GetString("store")
	return cli.Setup(cmd.Context(), opts)
}
