package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/output"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Menu recommendations from order history",
	Long: `Suggest menu changes: combos from items often ordered together, items to
promote at the times they sell, growing categories and dishes favoured by
your best customers.`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	recs, err := env.service.MenuRecommendations(env.filter)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, recs)
	}

	fmt.Fprintln(w, output.Section(fmt.Sprintf("Menu recommendations (%s)", env.filter)))
	fmt.Fprintln(w)
	if len(recs) == 0 {
		fmt.Fprintln(w, " Not enough orders for recommendations yet.")
		return nil
	}
	for i, r := range recs {
		fmt.Fprintf(w, " %d. %s %s\n", i+1, output.StyleBold.Render(r.Item),
			output.StyleMuted.Render("("+output.Confidence(r.Confidence)+")"))
		fmt.Fprintf(w, "    %s\n", r.Reason)
		fmt.Fprintf(w, "    %s %s\n", output.StyleSuccess.Render("Impact:"), r.ExpectedImpact)
	}
	return nil
}
