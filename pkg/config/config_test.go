package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/lockcov/pkg/config"
)

const testMaxClassBytes = 64 << 20

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lockcov.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.FormatText, cfg.Output.Format)
	assert.False(t, cfg.Output.NoColor)
	assert.Equal(t, config.DefaultAnalysisWorkers, cfg.Analysis.Workers)
	assert.Equal(t, config.DefaultAnalysisMaxClassSize, cfg.Analysis.MaxClassSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)

	size, err := cfg.MaxClassBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(testMaxClassBytes), size)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
output:
  format: json
  no_color: true
analysis:
  workers: 4
  max_class_size: "512KB"
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
  environment: ci
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, config.FormatJSON, cfg.Output.Format)
	assert.True(t, cfg.Output.NoColor)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.Equal(t, "ci", cfg.Telemetry.Environment)

	size, err := cfg.MaxClassBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(512_000), size)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("LOCKCOV_OUTPUT_FORMAT", "table")
	t.Setenv("LOCKCOV_ANALYSIS_WORKERS", "3")

	cfg, err := config.LoadConfig(writeConfig(t, "output:\n  format: yaml\n"))
	require.NoError(t, err)

	assert.Equal(t, config.FormatTable, cfg.Output.Format)
	assert.Equal(t, 3, cfg.Analysis.Workers)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "output: [unclosed\n"))
	require.Error(t, err)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"format", "output:\n  format: xml\n", config.ErrInvalidFormat},
		{"zero workers", "analysis:\n  workers: 0\n", config.ErrInvalidWorkers},
		{"negative workers", "analysis:\n  workers: -2\n", config.ErrInvalidWorkers},
		{"size garbage", "analysis:\n  max_class_size: lots\n", config.ErrInvalidMaxClassSize},
		{"size zero", "analysis:\n  max_class_size: \"0B\"\n", config.ErrInvalidMaxClassSize},
		{"log level", "logging:\n  level: chatty\n", config.ErrInvalidLogLevel},
		{"log format", "logging:\n  format: xml\n", config.ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfig_ValidateAfterOverride(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	cfg.Output.Format = "csv"
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidFormat)

	cfg.Output.Format = config.FormatYAML
	require.NoError(t, cfg.Validate())
}
