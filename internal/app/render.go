package app

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/output"
)

// renderStats prints the dashboard summary block.
func renderStats(w io.Writer, s insight.AIStats) {
	fmt.Fprintln(w, output.Section("This week"))
	fmt.Fprintln(w)

	line := func(label, value string) {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render(label), output.StyleValue.Render(value))
	}
	line("Revenue", output.Money(s.TotalRevenue))
	line("Orders", fmt.Sprintf("%d", s.TotalOrders))
	line("Average order", output.Money(s.AverageOrderValue))
	line("Revenue growth", fmt.Sprintf("%+.1f%%", s.RevenueGrowthPercent))
	line("Average rating", fmt.Sprintf("%.1f", s.AverageRating))
	line("Critical stock", fmt.Sprintf("%d", s.CriticalStockItems))
	line("Top seller", s.TopSellingItem)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Kitchen efficiency"), output.ScoreBar(s.KitchenEfficiency, 20))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Table utilization"), output.ScoreBar(s.TableUtilization, 20))
}

// renderInsightList prints insights as numbered cards.
func renderInsightList(w io.Writer, insights []insight.Insight) {
	if len(insights) == 0 {
		fmt.Fprintln(w, " No insights for this window.")
		return
	}
	for i, in := range insights {
		fmt.Fprintf(w, " %d. [%s] %s %s\n",
			i+1,
			output.PriorityBadge(string(in.Priority)),
			output.StyleBold.Render(in.Title),
			output.StyleMuted.Render("("+output.Confidence(in.Confidence)+")"))
		fmt.Fprintf(w, "    %s\n", in.Description)
	}
}

// renderFailures lists rules whose insights were dropped.
func renderFailures(w io.Writer, failures []insight.RuleError) {
	for _, f := range failures {
		fmt.Fprintf(w, " %s rule %s failed: %s\n", output.StyleWarning.Render("!"), f.Rule, f.Cause)
	}
}
