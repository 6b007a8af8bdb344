package cmd

import (
	"fmt"

	"github.com/theirongolddev/rentroll/internal/cli"
	"github.com/theirongolddev/rentroll/internal/model"
	"github.com/theirongolddev/rentroll/internal/pipeline"
	"github.com/theirongolddev/rentroll/internal/scenario"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	flagScenarioDescription string
	flagScenarioSnapshot    bool
	flagScenarioActivate    bool
)

var scenarioCmd = &cobra.Command{
	Use:     "scenario",
	Aliases: []string{"scenarios"},
	Short:   "Manage budget scenarios",
	RunE:    runScenarioList,
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenarios with their budget totals",
	RunE:  runScenarioList,
}

var scenarioCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a scenario from the live assumptions and adjustments",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenarioCreate,
}

var scenarioActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Copy a scenario's assumptions and adjustments into the live data",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return editScenario(args[0], "Activated", scenario.Activate)
	},
}

var scenarioRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a scenario",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return editScenario(args[0], "Renamed", func(doc model.Document, id string) (model.Document, error) {
			return scenario.Rename(doc, id, args[1])
		})
	},
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a scenario (the live data is untouched)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return editScenario(args[0], "Deleted", scenario.Delete)
	},
}

func init() {
	scenarioCreateCmd.Flags().StringVar(&flagScenarioDescription, "description", "", "Scenario description")
	scenarioCreateCmd.Flags().BoolVar(&flagScenarioSnapshot, "snapshot", false, "Freeze a copy of the current leases and buildings")
	scenarioCreateCmd.Flags().BoolVar(&flagScenarioActivate, "activate", false, "Activate the new scenario")

	scenarioCmd.AddCommand(scenarioListCmd, scenarioCreateCmd, scenarioActivateCmd, scenarioRenameCmd, scenarioDeleteCmd)
	rootCmd.AddCommand(scenarioCmd)
}

func runScenarioList(_ *cobra.Command, _ []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIOS  %d", w.year)))
	fmt.Println()

	selectors := []string{scenario.Current}
	for _, s := range w.doc.BudgetScenarios {
		selectors = append(selectors, s.ID)
	}

	rows := make([][]string, 0, len(selectors))
	for _, sel := range selectors {
		v := scenario.Resolve(w.doc, sel)
		in := v.Input(w.doc.Payments, w.conv)
		total := pipeline.YearMetrics(in, w.year).TotalRevenue

		flags := ""
		if v.Active {
			flags = "active"
		}
		if v.Frozen {
			flags += " frozen"
		}
		rows = append(rows, []string{
			v.Selector,
			v.Name,
			formatNumber(int64(len(v.Assumptions))),
			formatNumber(int64(len(v.Adjustments))),
			cli.FormatMoney(total),
			flags,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Assumptions", "Adjustments", "Budget", ""},
		Rows:    rows,
	}))
	return nil
}

func runScenarioCreate(_ *cobra.Command, args []string) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	doc, s, err := scenario.Create(w.doc, scenario.CreateOptions{
		Name:        args[0],
		Description: flagScenarioDescription,
		Snapshot:    flagScenarioSnapshot,
	}, uuid.NewString(), w.now)
	if err != nil {
		return err
	}
	if flagScenarioActivate {
		if doc, err = scenario.Activate(doc, s.ID); err != nil {
			return err
		}
	}
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  Created scenario %q (%s)\n", s.Name, s.ID)
	return nil
}

func editScenario(id, verb string, edit func(model.Document, string) (model.Document, error)) error {
	w, err := loadData()
	if err != nil {
		return err
	}
	doc, err := edit(w.doc, id)
	if err != nil {
		return err
	}
	if err := w.save(doc); err != nil {
		return err
	}
	fmt.Printf("  %s scenario %s\n", verb, id)
	return nil
}
