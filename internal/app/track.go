package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/tablewatch/internal/config"
	"github.com/blackwell-systems/tablewatch/internal/insight"
	"github.com/blackwell-systems/tablewatch/internal/output"
	"github.com/blackwell-systems/tablewatch/internal/store"
)

var (
	trackCompare int
	trackHistory int
	trackDB      string
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot and compare stats over time",
	Long: `Run the analysis, store a new snapshot with its stats, insights and stock
predictions, and compare against an earlier snapshot with trend arrows.
Insights from earlier snapshots that are no longer raised are resolved.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	trackCmd.Flags().StringVar(&trackDB, "db", "", "SQLite database path (default: ~/.config/tablewatch/tablewatch.db)")
	rootCmd.AddCommand(trackCmd)
}

type trackResult struct {
	Snapshot *store.Snapshot     `json:"snapshot"`
	Diff     *store.SnapshotDiff `json:"diff,omitempty"`
	Resolved int64               `json:"resolved"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	dbPath := trackDB
	if dbPath == "" {
		dbPath = config.DBPath()
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	rep, err := env.service.Report(env.filter)
	if err != nil {
		return err
	}

	snapshotID, err := recordReport(db, rep)
	if err != nil {
		return err
	}
	resolved, err := db.ResolveCleared(snapshotID)
	if err != nil {
		return fmt.Errorf("resolving cleared insights: %w", err)
	}
	env.logger.Debug("snapshot recorded", zap.Int64("snapshot_id", snapshotID), zap.Int64("resolved", resolved))

	w := cmd.OutOrStdout()
	if trackHistory > 0 {
		if flagJSON {
			return outputHistoryJSON(w, db, trackHistory)
		}
		return renderHistory(w, db, trackHistory)
	}

	current, err := db.GetSnapshot(snapshotID)
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}
	diff, err := db.Diff(snapshotID, trackCompare, higherIsBetter)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(w, trackResult{Snapshot: current, Diff: diff, Resolved: resolved})
	}
	renderTrackOutput(w, current, diff, resolved)
	return nil
}

// recordReport stores one report as a snapshot with its metrics, insights
// and predictions.
func recordReport(db *store.DB, rep *insight.Report) (int64, error) {
	run := &store.Run{
		Command: "track",
		Filter:  string(rep.Filter),
		Version: appVersion,
	}

	metrics := buildAggregateMetrics(rep)
	for _, name := range metricDisplayOrder {
		m := store.AggregateMetric{MetricName: name, MetricValue: metrics[name]}
		if name == "top_selling_item_quantity" {
			m.Detail = rep.Stats.TopSellingItem
		}
		run.Metrics = append(run.Metrics, m)
	}
	for _, in := range rep.Insights {
		run.Insights = append(run.Insights, store.InsightRow{
			Key:         in.ID,
			Type:        string(in.Type),
			Priority:    string(in.Priority),
			Title:       in.Title,
			Description: in.Description,
			Confidence:  in.Confidence,
			Status:      store.StatusOpen,
		})
	}
	for _, p := range rep.Predictions {
		run.Predictions = append(run.Predictions, store.PredictionRow{
			Item:               p.Item,
			DaysLeft:           p.DaysLeft,
			CurrentStock:       p.CurrentStock,
			RecommendedReorder: p.RecommendedReorder,
			Confidence:         p.Confidence,
		})
	}

	id, err := db.RecordRun(run)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return id, nil
}

// buildAggregateMetrics flattens a report into named values.
func buildAggregateMetrics(rep *insight.Report) map[string]float64 {
	s := rep.Stats
	var high int
	for _, in := range rep.Insights {
		if in.Priority == insight.PriorityHigh {
			high++
		}
	}
	return map[string]float64{
		"total_revenue":             s.TotalRevenue,
		"total_orders":              float64(s.TotalOrders),
		"average_order_value":       s.AverageOrderValue,
		"revenue_growth_percent":    s.RevenueGrowthPercent,
		"average_rating":            s.AverageRating,
		"kitchen_efficiency":        s.KitchenEfficiency,
		"table_utilization":         s.TableUtilization,
		"critical_stock_items":      float64(s.CriticalStockItems),
		"top_selling_item_quantity": float64(s.TopSellingItemOrdered),
		"open_insights":             float64(len(rep.Insights)),
		"high_priority_insights":    float64(high),
		"rule_failures":             float64(len(rep.Failures)),
	}
}

// metricDirection maps metric names to whether higher values are better.
var metricDirection = map[string]bool{
	"total_revenue":             true,
	"total_orders":              true,
	"average_order_value":       true,
	"revenue_growth_percent":    true,
	"average_rating":            true,
	"kitchen_efficiency":        true,
	"table_utilization":         true,
	"critical_stock_items":      false,
	"top_selling_item_quantity": true,
	"open_insights":             false,
	"high_priority_insights":    false,
	"rule_failures":             false,
}

// higherIsBetter defaults unknown metrics to higher-is-better.
func higherIsBetter(name string) bool {
	better, known := metricDirection[name]
	return !known || better
}

// metricDisplayOrder defines the order metrics are stored and shown.
var metricDisplayOrder = []string{
	"total_revenue",
	"total_orders",
	"average_order_value",
	"revenue_growth_percent",
	"average_rating",
	"kitchen_efficiency",
	"table_utilization",
	"critical_stock_items",
	"top_selling_item_quantity",
	"open_insights",
	"high_priority_insights",
	"rule_failures",
}

// metricShortName returns a compact label for display in tables.
func metricShortName(name string) string {
	short := map[string]string{
		"total_revenue":             "Revenue",
		"total_orders":              "Orders",
		"average_order_value":       "Avg Order",
		"revenue_growth_percent":    "Revenue Growth %",
		"average_rating":            "Avg Rating",
		"kitchen_efficiency":        "Kitchen Eff. %",
		"table_utilization":         "Table Util. %",
		"critical_stock_items":      "Critical Stock",
		"top_selling_item_quantity": "Top Seller Qty",
		"open_insights":             "Insights",
		"high_priority_insights":    "High Priority",
		"rule_failures":             "Rule Failures",
	}
	if s, ok := short[name]; ok {
		return s
	}
	return name
}

func renderTrackOutput(w io.Writer, current *store.Snapshot, diff *store.SnapshotDiff, resolved int64) {
	fmt.Fprintln(w, output.Section("Track: Snapshot Comparison"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Snapshot #%d taken at %s (%s)\n\n", current.ID, current.TakenAt.Format("2006-01-02 15:04:05"), current.Filter)

	if resolved > 0 {
		fmt.Fprintf(w, " %s %d insight(s) resolved since the last snapshot\n\n", output.StyleSuccess.Render("✓"), resolved)
	}

	if diff == nil {
		fmt.Fprintln(w, " First snapshot recorded. Run 'tablewatch track' again later to see trends.")
		return
	}

	fmt.Fprintf(w, " Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend").AlignRight(1, 2, 3)
	for _, d := range diff.Deltas {
		tbl.AddRow(
			metricShortName(d.Name),
			fmt.Sprintf("%.1f", d.Previous),
			fmt.Sprintf("%.1f", d.Current),
			fmt.Sprintf("%+.1f", d.Delta),
			output.TrendArrow(d.Delta, higherIsBetter(d.Name)),
		)
	}
	_, _ = tbl.WriteTo(w)
}

// chronological loads up to n snapshots oldest first.
func chronological(db *store.DB, n int) ([]store.Snapshot, error) {
	snapshots, err := db.GetRecentSnapshots(n)
	if err != nil {
		return nil, fmt.Errorf("loading snapshots: %w", err)
	}
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(w io.Writer, db *store.DB, n int) error {
	snapshots, err := chronological(db, n)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(w, " No snapshots found. Run 'tablewatch track' to create one.")
		return nil
	}

	timeline := make([]map[string]float64, 0, len(snapshots))
	for _, s := range snapshots {
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		m := make(map[string]float64, len(metrics))
		for _, am := range metrics {
			m[am.MetricName] = am.MetricValue
		}
		timeline = append(timeline, m)
	}

	fmt.Fprintln(w, output.Section("Track: Metric History"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Showing %d most recent snapshots\n\n", len(snapshots))

	headers := []string{"Metric"}
	for _, s := range snapshots {
		headers = append(headers, fmt.Sprintf("#%d %s", s.ID, s.TakenAt.Format("Jan 02")))
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		for _, m := range timeline {
			row = append(row, fmt.Sprintf("%.1f", m[name]))
		}
		trend := ""
		if len(timeline) >= 2 {
			delta := timeline[len(timeline)-1][name] - timeline[0][name]
			trend = output.TrendArrow(delta, higherIsBetter(name))
		}
		tbl.AddRow(append(row, trend)...)
	}
	_, _ = tbl.WriteTo(w)
	return nil
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(w io.Writer, db *store.DB, n int) error {
	snapshots, err := chronological(db, n)
	if err != nil {
		return err
	}

	type snapshotEntry struct {
		Snapshot store.Snapshot          `json:"snapshot"`
		Metrics  []store.AggregateMetric `json:"metrics"`
	}
	entries := make([]snapshotEntry, 0, len(snapshots))
	for _, s := range snapshots {
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		entries = append(entries, snapshotEntry{Snapshot: s, Metrics: metrics})
	}
	return writeJSON(w, map[string]any{"history": entries})
}
