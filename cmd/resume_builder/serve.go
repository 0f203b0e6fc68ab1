package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/metrics"
	"github.com/jonathan/resume-builder/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that exposes the draft, its edit operations, previews, exports and a live event stream.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := appConfig.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	store, closeStore, err := openStore(ctx, collector)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(server.Config{
		Port:                port,
		PageWidth:           appConfig.PageWidth,
		ExportRatePerMinute: appConfig.ExportRate(),
		Metrics:             metrics.Handler(reg),
		Logger:              logger,
	}, store, newPipeline(collector))

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
