package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/chat"
	"github.com/blackwell-systems/tablewatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server over the POS analysis",
	Long: `Start a Model Context Protocol stdio server so an assistant can query
the restaurant analysis. The server exposes these tools:

  get_insights               Ranked insights for a filter, optional min priority
  get_stats                  Trailing-week dashboard stats
  get_inventory_predictions  Stock-out predictions, optionally limited
  get_menu_recommendations   Menu recommendations for a filter
  get_forecast               Seven-day revenue forecast and sentiment
  ask                        Keyword answer to a free-text question

Add to your MCP client configuration:
  {"mcpServers":{"tablewatch":{"command":"tablewatch","args":["mcp"]}}}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	srv := mcp.NewServer(env.service, chat.NewResponder(), env.filter, appVersion).WithLogger(env.logger)
	return srv.Run(cmd.Context(), os.Stdin, cmd.OutOrStdout())
}
