package config

// Output defaults.
const (
	DefaultOutputFormat  = FormatText
	DefaultOutputNoColor = false
)

// Analysis defaults.
const (
	DefaultAnalysisWorkers      = 1
	DefaultAnalysisMaxClassSize = "64MiB"
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)
