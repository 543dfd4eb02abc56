package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/analyzer"
	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/output"
)

var predictCritical bool

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Stock-out predictions for every inventory item",
	Long: `Estimate days until each inventory item runs out from its monthly usage,
soonest first, with a reorder quantity covering the lead time.

Examples:
  tablewatch predict
  tablewatch predict --critical     # only items at 3 days or less`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().BoolVar(&predictCritical, "critical", false, "Only show items at critical stock")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	preds, err := env.service.InventoryPredictions()
	if err != nil {
		return err
	}
	if predictCritical {
		preds = criticalOnly(preds)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, preds)
	}

	fmt.Fprintln(w, output.Section("Inventory predictions"))
	fmt.Fprintln(w)
	if len(preds) == 0 {
		fmt.Fprintln(w, " No inventory items to predict.")
		return nil
	}

	tbl := output.NewTable("Item", "Stock", "Daily use", "Out of stock", "Reorder", "Confidence").AlignRight(1, 2, 4, 5)
	for _, p := range preds {
		out := p.PredictedOutOfStock
		if p.DaysLeft <= analyzer.CriticalStockDays {
			out = output.StyleError.Render(out)
		}
		tbl.AddRow(
			p.Item,
			fmt.Sprintf("%.1f", p.CurrentStock),
			fmt.Sprintf("%.1f", p.DailyUsage),
			out,
			fmt.Sprintf("%.0f", p.RecommendedReorder),
			output.Confidence(p.Confidence),
		)
	}
	_, _ = tbl.WriteTo(w)
	return nil
}

// criticalOnly keeps predictions at or under the critical stock threshold.
func criticalOnly(preds []insight.InventoryPrediction) []insight.InventoryPrediction {
	out := []insight.InventoryPrediction{}
	for _, p := range preds {
		if p.DaysLeft <= analyzer.CriticalStockDays {
			out = append(out, p)
		}
	}
	return out
}
