package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bindinfo/pkg/apimodel"
	"github.com/Sumatoshi-tech/bindinfo/pkg/config"
	"github.com/Sumatoshi-tech/bindinfo/pkg/extract"
	"github.com/Sumatoshi-tech/bindinfo/pkg/observability"
	"github.com/Sumatoshi-tech/bindinfo/pkg/version"
)

var (
	errNoHeader = errors.New("no header given: pass --header or set input.header")
	errDrift    = errors.New("model differs from snapshot")
)

// app carries the state shared by every subcommand.
type app struct {
	cfgFile     string
	verbose     bool
	quiet       bool
	mode        observability.AppMode
	metricsAddr string

	stdout io.Writer
	stderr io.Writer

	cfg       *config.Config
	providers observability.Providers
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}

	obsCfg := cfg.Observability(version.Version)
	obsCfg.LogOutput = a.stderr

	switch {
	case a.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case a.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	if a.mode == observability.ModeMCP {
		if a.metricsAddr == "" {
			a.metricsAddr = cfg.Telemetry.PrometheusAddr
		}

		obsCfg.Mode = observability.ModeMCP
		obsCfg.Prometheus = a.metricsAddr != ""
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	a.cfg = cfg
	a.providers = providers

	providers.Logger.DebugContext(cmd.Context(), "configuration loaded",
		slog.String("command", cmd.Name()), slog.String("config", a.cfgFile))

	return nil
}

func (a *app) shutdown(ctx context.Context) error {
	if a.providers.Shutdown == nil {
		return nil
	}

	return a.providers.Shutdown(context.WithoutCancel(ctx))
}

// inputFlags are the per-command overrides of input.header and input.metadata.
type inputFlags struct {
	header   string
	metadata string
}

func (in *inputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.header, "header", "", "C header to extract (overrides input.header)")
	cmd.Flags().StringVar(&in.metadata, "metadata", "", "metadata YAML file (overrides input.metadata)")
}

func (a *app) extractModel(ctx context.Context, in inputFlags) (*apimodel.Model, error) {
	req := extract.Request{HeaderPath: a.cfg.Input.Header, MetadataPath: a.cfg.Input.Metadata}

	if in.header != "" {
		req.HeaderPath = in.header
	}

	if in.metadata != "" {
		req.MetadataPath = in.metadata
	}

	if req.HeaderPath == "" {
		return nil, errNoHeader
	}

	pipeline, err := a.newPipeline()
	if err != nil {
		return nil, err
	}

	return pipeline.Run(ctx, req)
}

// newPipeline builds an extraction pipeline from the loaded configuration.
func (a *app) newPipeline() (*extract.Pipeline, error) {
	metrics, err := observability.NewExtractionMetrics(a.providers.Meter)
	if err != nil {
		return nil, err
	}

	pipeline := extract.NewPipeline(a.cfg.Runner())
	pipeline.Options = a.cfg.ModelOptions()
	pipeline.ValidateMetadata = a.cfg.Input.ValidateMetadata
	pipeline.Tracer = a.providers.Tracer
	pipeline.Metrics = metrics
	pipeline.Logger = a.providers.Logger

	return pipeline, nil
}

// status prints a colored status line unless --quiet is set.
func (a *app) status(attr color.Attribute, format string, args ...any) {
	if a.quiet {
		return
	}

	color.New(attr).Fprintf(a.stdout, format+"\n", args...)
}
