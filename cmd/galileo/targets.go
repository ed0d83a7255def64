package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var targetsFlags struct {
	state string
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show scrape target state",
	Long: `Show the scrape targets the server discovered.

Active targets list their health, scrape URL, and last scrape; dropped
targets were discarded by relabeling.

Examples:
  # All targets
  galileo targets

  # Only active targets
  galileo targets --state active

  # Machine readable
  galileo targets --output json`,
	RunE: runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)

	targetsCmd.Flags().StringVar(&targetsFlags.state, "state", "", "target state filter: active, dropped, any")
}

func runTargets(cmd *cobra.Command, args []string) error {
	var state promapi.TargetState
	switch targetsFlags.state {
	case "":
		state = ""
	case "active":
		state = promapi.TargetStateActive
	case "dropped":
		state = promapi.TargetStateDropped
	case "any":
		state = promapi.TargetStateAny
	default:
		return fmt.Errorf("invalid state %q: must be 'active', 'dropped', or 'any'", targetsFlags.state)
	}

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()
	discovery, err := client.Targets(ctx, state)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, discovery)
	}

	printTargetsText(discovery)
	return nil
}

func printTargetsText(discovery *promapi.TargetDiscovery) {
	fmt.Printf("Active targets: %d\n", len(discovery.Active))
	for _, target := range discovery.Active {
		fmt.Printf("  [%s] %s\n", target.Health, target.ScrapeURL)
		fmt.Printf("        pool: %s, last scrape: %s (%.3fs)\n",
			target.ScrapePool,
			target.LastScrape.Format(time.RFC3339),
			target.LastScrapeDuration)
		if target.LastError != "" {
			fmt.Printf("        last error: %s\n", target.LastError)
		}
	}

	fmt.Println()
	fmt.Printf("Dropped targets: %d\n", len(discovery.Dropped))
}
