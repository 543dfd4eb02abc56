package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/chat"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask a question about sales, inventory, menu, customers, staff or pricing",
	Long: `Answer a free-text question from a fixed set of topics. The first topic
keyword found in the question picks the answer.

Example:
  tablewatch ask how is my inventory looking`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errors.New("ask needs a question, e.g. tablewatch ask how are sales")
	}

	reply := chat.NewResponder().Respond(question)
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), reply)
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return nil
}
