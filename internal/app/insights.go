package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/output"
)

var (
	insightsPriority string
	insightsLimit    int
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Ranked operational insights for a time window",
	Long: `Run every insight rule over the selected window and list the results,
highest priority first. A rule that fails is reported and skipped; the
others still contribute.

Examples:
  tablewatch insights                     # this week (default filter)
  tablewatch insights --filter today
  tablewatch insights --priority high     # only high priority
  tablewatch insights --json`,
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().StringVar(&insightsPriority, "priority", "", "Minimum priority to show: low, medium, high")
	insightsCmd.Flags().IntVar(&insightsLimit, "limit", 0, "Show at most N insights (0 = all)")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	minPriority, err := parsePriority(insightsPriority)
	if err != nil {
		return err
	}

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	res, err := env.service.Insights(env.filter)
	if err != nil {
		return err
	}
	res.Insights = insight.FilterByPriority(res.Insights, minPriority)
	if res.Insights == nil {
		res.Insights = []insight.Insight{}
	}
	if insightsLimit > 0 && len(res.Insights) > insightsLimit {
		res.Insights = res.Insights[:insightsLimit]
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, res)
	}

	fmt.Fprintln(w, output.Section(fmt.Sprintf("Insights (%s)", env.filter)))
	fmt.Fprintln(w)
	renderInsightList(w, res.Insights)
	if len(res.Failures) > 0 {
		fmt.Fprintln(w)
		renderFailures(w, res.Failures)
	}
	return nil
}

// parsePriority accepts an empty string as "no minimum".
func parsePriority(s string) (insight.Priority, error) {
	switch p := insight.Priority(s); p {
	case "":
		return "", nil
	case insight.PriorityLow, insight.PriorityMedium, insight.PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
	}
}
