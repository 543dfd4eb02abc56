package app

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Dashboard statistics for the trailing week",
	Long: `Summarise the trailing seven days: revenue, order count, average order
value, revenue growth, rating, kitchen efficiency, table utilization,
critical stock items and the best-selling item. Stats always cover the
week; --filter does not apply.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	stats, err := env.service.Stats()
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), stats)
	}
	renderStats(cmd.OutOrStdout(), stats)
	return nil
}
