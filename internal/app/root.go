// Package app contains the Cobra command tree for tablewatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagData    string
	flagFilter  string
)

var rootCmd = &cobra.Command{
	Use:   "tablewatch",
	Short: "Operations insights for a restaurant point of sale",
	Long: `tablewatch reads point-of-sale exports (orders, inventory, menu, customers,
staff and tables) and turns them into ranked insights, stock-out predictions,
menu recommendations and summary statistics.

Run 'tablewatch' with no arguments for a quick dashboard of the current week.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/tablewatch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "POS data directory (overrides data_dir)")
	rootCmd.PersistentFlags().StringVar(&flagFilter, "filter", "", "Time window: today, yesterday, week, month, all (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	rep, err := env.service.Report(env.filter)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), rep)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "tablewatch %s (%s)\n", appVersion, env.filter)
	renderStats(w, rep.Stats)

	top := rep.Insights
	if len(top) > 3 {
		top = top[:3]
	}
	fmt.Fprintln(w, output.Section("Top insights"))
	fmt.Fprintln(w)
	renderInsightList(w, top)

	fmt.Fprintln(w)
	fmt.Fprintln(w, output.StyleMuted.Render(" More: insights, predict, recommend, forecast, ask, track, watch, serve, export"))
	return nil
}
