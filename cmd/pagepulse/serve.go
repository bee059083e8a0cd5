package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/pagepulse/internal/engine"
	"github.com/crimson-sun/pagepulse/internal/output"
	"github.com/crimson-sun/pagepulse/internal/output/async"
	"github.com/crimson-sun/pagepulse/internal/output/multi"
	"github.com/crimson-sun/pagepulse/internal/pipeline"
	"github.com/crimson-sun/pagepulse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long: `Serve extract, highlight, clear and analyze over HTTP.

  POST /v1/extract    {"html": "...", "id_mode": false}
  POST /v1/highlight  {"html": "...", "spans": [...]}
  POST /v1/clear      {"html": "..."}
  POST /v1/analyze    {"html": "..."} or {"url": "https://..."}
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default PAGEPULSE_ADDR or 127.0.0.1:8787)")
	serveCmd.Flags().Bool("id-mode", false, "Match analyze results by element id")
	serveCmd.Flags().Int("max-markers", 20, "Maximum number of highlights per page")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	eng, err := engine.Build(engineSettings(cfg))
	if err != nil {
		return err
	}
	outs, err := sideOutputs(cfg)
	if err != nil {
		return err
	}
	var out output.Output
	if len(outs) > 0 {
		out = async.New(multi.New(outs...), async.WithDropOnFull())
	}
	p := pipeline.New(eng, out, pipeline.WithSourceConfig(sourceConfig(cfg)))
	defer p.Close()

	srv := server.New(eng, p, server.WithRate(cfg.Server.RatePerMinute, cfg.Server.Burst))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pterm.Info.Printf("pagepulse %s listening on http://%s\n", rootCmd.Version, cfg.Server.Addr)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}
