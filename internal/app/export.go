package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/report"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full analysis as an Excel workbook",
	Long: `Write the current report (summary stats, insights, inventory predictions,
menu recommendations and the sales forecast) to an .xlsx workbook with one
sheet per section. With --out - the workbook is written to stdout.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "tablewatch-report.xlsx", "Output file, or - for stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	rep, err := env.service.Report(env.filter)
	if err != nil {
		return err
	}

	if exportOut == "-" {
		return report.Write(cmd.OutOrStdout(), rep)
	}
	if err := report.Save(exportOut, rep); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d insights, %d inventory items)\n", exportOut, len(rep.Insights), len(rep.Predictions))
	return nil
}
