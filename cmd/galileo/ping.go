package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check server health and readiness",
	Long: `Check server health and readiness.

Hits the -/healthy and -/ready endpoints. A server that is healthy
but not ready is usually still replaying its write-ahead log; check
"galileo status walreplay" for progress.

The exit code is non-zero when either check fails, so ping works as a
probe in scripts.

Examples:
  # Is the server up?
  galileo ping

  # In a script
  galileo ping && ./run-queries.sh`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

// PingResult reports the outcome of the health and readiness checks.
type PingResult struct {
	Healthy      bool   `json:"healthy"`
	Ready        bool   `json:"ready"`
	HealthyError string `json:"healthy_error,omitempty"`
	ReadyError   string `json:"ready_error,omitempty"`
}

func runPing(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	result := PingResult{Healthy: true, Ready: true}

	if err := client.Healthy(ctx); err != nil {
		result.Healthy = false
		result.HealthyError = err.Error()
	}
	if err := client.Ready(ctx); err != nil {
		result.Ready = false
		result.ReadyError = err.Error()
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		if result.Healthy {
			fmt.Println("✓ healthy")
		} else {
			fmt.Printf("✗ healthy: %s\n", result.HealthyError)
		}
		if result.Ready {
			fmt.Println("✓ ready")
		} else {
			fmt.Printf("✗ ready: %s\n", result.ReadyError)
		}
	}

	if !result.Healthy || !result.Ready {
		return cli.NewCommandError("ping", fmt.Errorf("server check failed"))
	}
	return nil
}
