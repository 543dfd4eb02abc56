package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/tablewatch/internal/api"
	"github.com/blackwell-systems/tablewatch/internal/chat"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve insights, stats and chat over HTTP",
	Long: `Start an HTTP server exposing the analysis as JSON:

  GET  /api/insights?filter=week&priority=high
  GET  /api/stats
  GET  /api/predictions/inventory
  GET  /api/recommendations/menu?filter=month
  GET  /api/forecast?filter=week
  POST /api/chat              {"message": "how are sales?"}
  GET  /healthz
  GET  /metrics               Prometheus metrics

POS data is re-read on every request; a read failure answers 503 with
"stale": true rather than serving old numbers.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, e.g. :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.close()

	addr := env.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := api.New(env.service, chat.NewResponder(), env.filter, env.logger).WithCORS(env.cfg.Server.CORSOrigins...)
	fmt.Fprintf(cmd.OutOrStdout(), "tablewatch serving %s on %s\n", env.cfg.DataDir, addr)
	return srv.ListenAndServe(ctx, addr)
}
