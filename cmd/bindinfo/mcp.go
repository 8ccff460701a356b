package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/mcp"
	"github.com/Sumatoshi-tech/bindinfo/pkg/observability"
	"github.com/Sumatoshi-tech/bindinfo/pkg/version"
)

const (
	metricsPath              = "/metrics"
	metricsReadHeaderTimeout = 5 * time.Second
)

func mcpCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve extraction tools over the Model Context Protocol on stdio",
		Long: `MCP starts a Model Context Protocol server on stdin/stdout exposing the
bindinfo_extract, bindinfo_enums and bindinfo_validate_metadata tools.

The preprocessor and model settings come from the configuration file.
With --metrics-addr (or telemetry.prometheus_addr) tool and extraction
metrics are served for Prometheus at /metrics.`,
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.mode = observability.ModeMCP

			return a.setup(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serveMCP(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&a.metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address (overrides telemetry.prometheus_addr)")

	return cmd
}

func (a *app) serveMCP(ctx context.Context) error {
	pipeline, err := a.newPipeline()
	if err != nil {
		return err
	}

	toolMetrics, err := observability.NewToolMetrics(a.providers.Meter)
	if err != nil {
		return err
	}

	logger := a.providers.Logger

	if a.metricsAddr != "" {
		listener, listenErr := net.Listen("tcp", a.metricsAddr)
		if listenErr != nil {
			return fmt.Errorf("listen for metrics: %w", listenErr)
		}

		stop := serveMetrics(listener, a.providers.MetricsHandler, logger)
		defer stop(context.WithoutCancel(ctx))
	}

	srv := mcp.NewServer(mcp.ServerDeps{
		Extractor: pipeline,
		Version:   version.Version,
		Logger:    logger,
		Metrics:   toolMetrics,
		Tracer:    a.providers.Tracer,
	})

	logger.InfoContext(ctx, "mcp server starting", slog.Any("tools", srv.ListToolNames()))

	return srv.Run(ctx)
}

// serveMetrics serves handler at /metrics on listener in the background and
// returns a function that shuts the server down.
func serveMetrics(listener net.Listener, handler http.Handler, logger *slog.Logger) func(context.Context) {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)

	server := &http.Server{Handler: mux, ReadHeaderTimeout: metricsReadHeaderTimeout}

	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", serveErr))
		}
	}()

	logger.Info("serving metrics", slog.String("addr", listener.Addr().String()), slog.String("path", metricsPath))

	return func(ctx context.Context) {
		if shutdownErr := server.Shutdown(ctx); shutdownErr != nil {
			logger.Warn("metrics server shutdown", slog.Any("error", shutdownErr))
		}
	}
}
