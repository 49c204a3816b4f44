package observability_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"

	"github.com/Sumatoshi-tech/lockcov/pkg/observability"
)

func TestNewAnalysisMetrics_Noop(t *testing.T) {
	t.Parallel()

	am, err := observability.NewAnalysisMetrics(noopmetric.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	am.RecordRun(context.Background(), observability.AnalysisStats{Methods: 2, Total: 10, Locked: 4})
}

func TestAnalysisMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var am *observability.AnalysisMetrics

	assert.NotPanics(t, func() {
		am.RecordRun(context.Background(), observability.AnalysisStats{Total: 1})
	})
}

func TestAnalysisMetrics_RecordRunExported(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.CollectMetrics = true

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	am, err := observability.NewAnalysisMetrics(providers.Meter)
	require.NoError(t, err)

	am.RecordRun(context.Background(), observability.AnalysisStats{
		InputBytes:     2048,
		Methods:        3,
		Total:          27,
		Locked:         21,
		DecodeDuration: time.Millisecond,
		Duration:       2 * time.Millisecond,
	})

	var out bytes.Buffer

	require.NoError(t, observability.WritePrometheusText(&out, providers.Registry))

	text := out.String()
	assert.Contains(t, text, "lockcov_analysis_classes")
	assert.Contains(t, text, "lockcov_analysis_methods")
	assert.Contains(t, text, `locked="true"`)
	assert.Contains(t, text, `stage="decode"`)
	assert.Contains(t, text, "lockcov_input_bytes")
}
