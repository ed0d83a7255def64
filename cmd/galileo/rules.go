package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var rulesFlags struct {
	ruleType string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show loaded alerting and recording rules",
	Long: `Show the rule groups currently loaded by the server.

Each group lists its rules with their evaluation health. Alerting
rules additionally show their state and active alert count.

Examples:
  # All rules
  galileo rules

  # Only alerting rules
  galileo rules --type alert

  # Only recording rules
  galileo rules --type record`,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&rulesFlags.ruleType, "type", "", "rule type filter: alert, record")
}

func runRules(cmd *cobra.Command, args []string) error {
	var ruleType promapi.RuleType
	switch rulesFlags.ruleType {
	case "":
		ruleType = ""
	case "alert":
		ruleType = promapi.RuleTypeAlert
	case "record":
		ruleType = promapi.RuleTypeRecord
	default:
		return fmt.Errorf("invalid type %q: must be 'alert' or 'record'", rulesFlags.ruleType)
	}

	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()
	groups, err := client.Rules(ctx, ruleType)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, groups)
	}

	printRulesText(groups)
	return nil
}

func printRulesText(groups *promapi.RuleGroups) {
	if len(groups.Groups) == 0 {
		fmt.Println("No rules loaded.")
		return
	}

	for i, group := range groups.Groups {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("Group: %s (%s)\n", group.Name, group.File)

		for _, rule := range group.Rules {
			switch r := rule.(type) {
			case promapi.AlertingRule:
				fmt.Printf("  alert  %-40s [%s] state=%s alerts=%d\n",
					r.Name, r.Health, r.State, len(r.Alerts))
				if r.LastError != "" {
					fmt.Printf("         last error: %s\n", r.LastError)
				}
			case promapi.RecordingRule:
				fmt.Printf("  record %-40s [%s]\n", r.Name, r.Health)
				if r.LastError != "" {
					fmt.Printf("         last error: %s\n", r.LastError)
				}
			}
		}
	}
}
