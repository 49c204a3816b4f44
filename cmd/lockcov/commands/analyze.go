// Package commands implements the lockcov cobra commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/lockcov/pkg/classfile"
	"github.com/Sumatoshi-tech/lockcov/pkg/config"
	"github.com/Sumatoshi-tech/lockcov/pkg/loader"
	"github.com/Sumatoshi-tech/lockcov/pkg/lockcov"
	"github.com/Sumatoshi-tech/lockcov/pkg/observability"
	"github.com/Sumatoshi-tech/lockcov/pkg/report"
	"github.com/Sumatoshi-tech/lockcov/pkg/safeconv"
	"github.com/Sumatoshi-tech/lockcov/pkg/version"
)

const metricsFileMode = 0o644

// errNoRegistry means --metrics-out was set but metric collection was not enabled.
var errNoRegistry = errors.New("metrics registry not initialized")

// AnalyzeCommand holds the flags for the root analysis command.
type AnalyzeCommand struct {
	configPath string
	format     string
	metricsOut string
	workers    int
	noColor    bool
	verbose    bool
}

// NewAnalyzeCommand creates the root command, which analyzes one class file.
func NewAnalyzeCommand() *cobra.Command {
	c := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "lockcov <class-file>",
		Short: "Estimate how much of a JVM class runs under a monitor lock",
		Long: `lockcov decodes a compiled class file and classifies every instruction as
locked or unlocked: inside a synchronized method, or between monitorenter and
monitorexit. It prints "<total>    <locked>    <percent>%".

Files ending in .lz4 (lz4 frame format) are decompressed first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.Run,
	}

	persistent := cobraCmd.PersistentFlags()
	persistent.StringVarP(&c.configPath, "config", "c", "", "Config file (default: ./lockcov.yaml or ~/.config/lockcov/lockcov.yaml)")
	persistent.BoolVarP(&c.verbose, "verbose", "v", false, "Debug logging to stderr")

	flags := cobraCmd.Flags()
	flags.StringVarP(&c.format, "format", "f", config.DefaultOutputFormat, "Output format: text, json, yaml or table")
	flags.IntVarP(&c.workers, "workers", "w", config.DefaultAnalysisWorkers, "Methods classified in parallel")
	flags.BoolVar(&c.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&c.metricsOut, "metrics-out", "", "Write run metrics in Prometheus text format to this file")

	return cobraCmd
}

// Run executes the analysis pipeline: load, decode, classify, render.
func (c *AnalyzeCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}

	providers, err := observability.InitWithWriter(observabilityConfig(cfg, c.metricsOut != ""), cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	ctx, span := providers.Tracer.Start(cmd.Context(), "lockcov.run",
		trace.WithAttributes(attribute.String("input.path", args[0])),
	)
	defer span.End()

	err = c.analyze(ctx, cmd, cfg, providers, args[0])
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")

		return err
	}

	return nil
}

func (c *AnalyzeCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Format = c.format
	}

	if flags.Changed("workers") {
		cfg.Analysis.Workers = c.workers
	}

	if c.noColor {
		cfg.Output.NoColor = true
	}

	if c.verbose {
		cfg.Logging.Level = "debug"
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

func observabilityConfig(cfg *config.Config, collectMetrics bool) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.CollectMetrics = collectMetrics

	level, _ := cfg.LogLevel() //nolint:errcheck // checked by cfg.Validate.
	obsCfg.LogLevel = level

	return obsCfg
}

func (c *AnalyzeCommand) analyze(
	ctx context.Context, cmd *cobra.Command, cfg *config.Config, providers observability.Providers, path string,
) error {
	logger := providers.Logger

	maxBytes, err := cfg.MaxClassBytes()
	if err != nil {
		return err
	}

	in, err := loader.Load(path, maxBytes)
	if err != nil {
		return err
	}

	decodeStart := time.Now()

	cf, err := classfile.Parse(in.Data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	decodeDuration := time.Since(decodeStart)

	logger.InfoContext(ctx, "class decoded",
		"class", cf.Name,
		"size", humanize.Bytes(safeconv.MustIntToUint64(len(in.Data))),
		"compressed", in.Compressed,
		"methods", len(cf.Methods),
		"fields", len(cf.Fields),
		"instructions", cf.InstructionCount(),
	)

	analyzer := &lockcov.Analyzer{
		Workers: cfg.Analysis.Workers,
		Logger:  logger,
		Tracer:  providers.Tracer,
	}

	analyzeStart := time.Now()

	res, err := analyzer.Analyze(ctx, lockcov.FromClassFile(cf))
	if err != nil {
		return err
	}

	recordMetrics(ctx, providers, logger, observability.AnalysisStats{
		InputBytes:     int64(len(in.Data)),
		Methods:        res.Count.Methods,
		Total:          res.Count.Total,
		Locked:         res.Count.Locked,
		DecodeDuration: decodeDuration,
		Duration:       time.Since(analyzeStart),
	})

	err = report.Write(cmd.OutOrStdout(), res, report.Options{
		Format:  cfg.Output.Format,
		NoColor: cfg.Output.NoColor,
	})
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if c.metricsOut != "" {
		return writeMetrics(c.metricsOut, providers)
	}

	return nil
}

func recordMetrics(ctx context.Context, providers observability.Providers, logger *slog.Logger, stats observability.AnalysisStats) {
	am, err := observability.NewAnalysisMetrics(providers.Meter)
	if err != nil {
		logger.WarnContext(ctx, "analysis metrics unavailable", "error", err)

		return
	}

	am.RecordRun(ctx, stats)
}

func writeMetrics(path string, providers observability.Providers) error {
	if providers.Registry == nil {
		return errNoRegistry
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, metricsFileMode)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}

	writeErr := observability.WritePrometheusText(f, providers.Registry)
	closeErr := f.Close()

	return errors.Join(writeErr, closeErr)
}
