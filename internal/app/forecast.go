package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/output"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Seven-day revenue projection and customer sentiment",
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	fc, err := env.service.Forecast(env.filter)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, fc)
	}

	fmt.Fprintln(w, output.Section(fmt.Sprintf("Sales forecast (from %s)", fc.Filter)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Daily average %s, trend %s, confidence %s\n\n",
		output.Money(fc.Sales.DailyAverage),
		output.TrendArrowPercent(fc.Sales.TrendPercent, true),
		output.Confidence(fc.Sales.Confidence))

	tbl := output.NewTable("Day", "Revenue").AlignRight(1)
	for _, d := range fc.Sales.Days {
		tbl.AddRow(d.Day, output.Money(d.Revenue))
	}
	tbl.AddRow(output.StyleBold.Render("Total"), output.StyleBold.Render(output.Money(fc.Sales.ProjectedRevenue)))
	_, _ = tbl.WriteTo(w)

	s := fc.Sentiment
	fmt.Fprintln(w, output.Section("Customer sentiment"))
	fmt.Fprintln(w)
	if s.Samples == 0 {
		fmt.Fprintln(w, " No rated orders in this window.")
		return nil
	}
	fmt.Fprintf(w, " %d rated orders, average %.1f\n", s.Samples, s.AverageRating)
	fmt.Fprintf(w, " %s %.1f%%  %s %.1f%%  %s %.1f%%\n",
		output.StyleSuccess.Render("positive"), s.Positive,
		output.StyleMuted.Render("neutral"), s.Neutral,
		output.StyleError.Render("negative"), s.Negative)
	return nil
}
