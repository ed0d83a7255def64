package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
)

var (
	// Global flags
	cfgFile      string
	serverURL    string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "galileo",
	Short: "Galileo - Prometheus HTTP API client",
	Long: `Galileo is a command line client for the Prometheus HTTP API.

It talks to a Prometheus server over HTTP(S) and exposes the query,
metadata, status, and admin endpoints:
  - Instant and range PromQL queries
  - Label, series, and metric metadata lookups
  - Scrape target, rule, and alert state
  - Server build, runtime, TSDB, and WAL replay status
  - Client-side PromQL linting
  - A local archive of executed queries

The server URL and credentials come from a YAML configuration file,
GALILEO_ environment variables, or the --server flag. Without any
configuration, galileo talks to http://localhost:9090.

For more information, visit: https://github.com/mercator-hq/galileo`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults plus GALILEO_ env overrides)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "server base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json, csv")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")

	// Disable default completion command (we'll add our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = false
}
