package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricClasses      = "lockcov.analysis.classes"
	metricMethods      = "lockcov.analysis.methods"
	metricInstructions = "lockcov.analysis.instructions"
	metricDuration     = "lockcov.analysis.duration"
	metricClassBytes   = "lockcov.input.bytes"

	attrLocked = "locked"
	attrStage  = "stage"
)

// durationBucketBoundaries covers 100µs to 10s; single class analyses are fast.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// AnalysisMetrics holds the instruments recorded once per analyzed class.
type AnalysisMetrics struct {
	classes      metric.Int64Counter
	methods      metric.Int64Counter
	instructions metric.Int64Counter
	duration     metric.Float64Histogram
	classBytes   metric.Int64Histogram
}

// AnalysisStats is the outcome of one run, decoupled from analysis types.
type AnalysisStats struct {
	InputBytes     int64
	Methods        int
	Total          int
	Locked         int
	DecodeDuration time.Duration
	Duration       time.Duration
}

// NewAnalysisMetrics creates the analysis instruments from mt.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	classes, err := mt.Int64Counter(metricClasses,
		metric.WithDescription("Classes analyzed"),
		metric.WithUnit("{class}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricClasses, err)
	}

	methods, err := mt.Int64Counter(metricMethods,
		metric.WithDescription("Methods classified"),
		metric.WithUnit("{method}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricMethods, err)
	}

	instructions, err := mt.Int64Counter(metricInstructions,
		metric.WithDescription("Counted instructions by lock state"),
		metric.WithUnit("{instruction}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInstructions, err)
	}

	duration, err := mt.Float64Histogram(metricDuration,
		metric.WithDescription("Time spent per stage in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDuration, err)
	}

	classBytes, err := mt.Int64Histogram(metricClassBytes,
		metric.WithDescription("Size of the decoded class file"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricClassBytes, err)
	}

	return &AnalysisMetrics{
		classes:      classes,
		methods:      methods,
		instructions: instructions,
		duration:     duration,
		classBytes:   classBytes,
	}, nil
}

// RecordRun records one analyzed class. Safe to call on a nil receiver.
func (am *AnalysisMetrics) RecordRun(ctx context.Context, stats AnalysisStats) {
	if am == nil {
		return
	}

	am.classes.Add(ctx, 1)
	am.methods.Add(ctx, int64(stats.Methods))
	am.classBytes.Record(ctx, stats.InputBytes)

	am.instructions.Add(ctx, int64(stats.Locked), metric.WithAttributes(attribute.Bool(attrLocked, true)))
	am.instructions.Add(ctx, int64(stats.Total-stats.Locked), metric.WithAttributes(attribute.Bool(attrLocked, false)))

	am.duration.Record(ctx, stats.DecodeDuration.Seconds(), metric.WithAttributes(attribute.String(attrStage, "decode")))
	am.duration.Record(ctx, stats.Duration.Seconds(), metric.WithAttributes(attribute.String(attrStage, "analyze")))
}
