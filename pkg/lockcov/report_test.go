package lockcov_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/lockcov/pkg/lockcov"
)

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count lockcov.ClassCount
		want  float64
	}{
		{"empty", lockcov.ClassCount{}, 0},
		{"all locked", lockcov.ClassCount{Total: 10, Locked: 10}, 100},
		{"none locked", lockcov.ClassCount{Total: 7, Locked: 0}, 0},
		{"exact half", lockcov.ClassCount{Total: 8, Locked: 7}, 87.5},
		{"third", lockcov.ClassCount{Total: 3, Locked: 1}, 33.33},
		{"two thirds rounds up", lockcov.ClassCount{Total: 3, Locked: 2}, 66.67},
		{"fields do not count", lockcov.ClassCount{Total: 4, Locked: 1, Fields: 100}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.want, lockcov.Percent(tt.count), 1e-9)
		})
	}
}

func TestRoundHundredths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{12.345, 12.35},
		{0.125, 0.13},
		{0.124, 0.12},
		{99.994, 99.99},
		{99.996, 100},
		{50, 50},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, lockcov.RoundHundredths(tt.in), 1e-9, "round %v", tt.in)
	}
}

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100.0", lockcov.FormatPercent(100))
	assert.Equal(t, "0.0", lockcov.FormatPercent(0))
	assert.Equal(t, "87.5", lockcov.FormatPercent(87.5))
	assert.Equal(t, "33.33", lockcov.FormatPercent(33.33))
	assert.Equal(t, "12.35", lockcov.FormatPercent(lockcov.RoundHundredths(12.345)))
}

func TestFormatLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count lockcov.ClassCount
		want  string
	}{
		{"empty class", lockcov.ClassCount{}, "0    0    0.0%"},
		{"synchronized", lockcov.ClassCount{Total: 10, Locked: 10, Methods: 1}, "10    10    100.0%"},
		{"cleanup exit", lockcov.ClassCount{Total: 8, Locked: 7}, "8    7    87.5%"},
		{"third", lockcov.ClassCount{Total: 300, Locked: 100}, "300    100    33.33%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, lockcov.FormatLine(tt.count))
		})
	}
}
