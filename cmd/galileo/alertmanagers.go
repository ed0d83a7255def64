package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var alertmanagersCmd = &cobra.Command{
	Use:   "alertmanagers",
	Short: "Show discovered Alertmanager instances",
	Long: `Show the Alertmanager instances the server sends alerts to.

Examples:
  galileo alertmanagers
  galileo alertmanagers --output json`,
	RunE: runAlertmanagers,
}

func init() {
	rootCmd.AddCommand(alertmanagersCmd)
}

func runAlertmanagers(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()
	result, err := client.AlertManagers(ctx)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, result)
	}

	printAlertmanagersText(result)
	return nil
}

func printAlertmanagersText(result *promapi.AlertManagersResult) {
	fmt.Printf("Active Alertmanagers: %d\n", len(result.Active))
	for _, am := range result.Active {
		fmt.Printf("  %s\n", am.URL)
	}

	if len(result.Dropped) > 0 {
		fmt.Println()
		fmt.Printf("Dropped Alertmanagers: %d\n", len(result.Dropped))
		for _, am := range result.Dropped {
			fmt.Printf("  %s\n", am.URL)
		}
	}
}
