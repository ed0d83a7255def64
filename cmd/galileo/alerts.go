package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts",
	Long: `Show the alerts currently active on the server.

Each alert lists its state (pending or firing), labels, and when it
became active.

Examples:
  # All active alerts
  galileo alerts

  # Machine readable
  galileo alerts --output json`,
	RunE: runAlerts,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()
	alerts, err := client.Alerts(ctx)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, alerts)
	}

	printAlertsText(alerts)
	return nil
}

func printAlertsText(alerts []promapi.Alert) {
	if len(alerts) == 0 {
		fmt.Println("No active alerts.")
		return
	}

	fmt.Printf("Active alerts: %d\n", len(alerts))
	for _, alert := range alerts {
		fmt.Printf("  [%s] %s\n", alert.State, alert.Labels)
		fmt.Printf("        active since: %s\n", alert.ActiveAt.Format(time.RFC3339))
		if alert.Value != "" {
			fmt.Printf("        value: %s\n", alert.Value)
		}
	}
}
