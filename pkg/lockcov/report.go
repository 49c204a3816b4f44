package lockcov

import (
	"math"
	"strconv"
	"strings"
)

const (
	// Delimiter separates the fields of the report line.
	Delimiter = "    "

	percentScale   = 100
	hundredthScale = 100
)

// Percent returns the locked share of c in percent, rounded to hundredths.
// An empty count yields 0.
func Percent(c ClassCount) float64 {
	return percentOf(c.Locked, c.Total)
}

// Percent returns the locked share of the method in percent, rounded to hundredths.
func (c MethodCount) Percent() float64 {
	return percentOf(c.Locked, c.Total)
}

func percentOf(locked, total int) float64 {
	if total < 1 {
		return 0
	}

	return RoundHundredths(float64(locked) / float64(total) * percentScale)
}

// RoundHundredths rounds v to two decimals, halves away from zero.
func RoundHundredths(v float64) float64 {
	return math.Round(v*hundredthScale) / hundredthScale
}

// FormatPercent renders p as the shortest decimal that round-trips, always
// with a fractional part: 100 becomes "100.0", 87.5 stays "87.5".
func FormatPercent(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

// FormatLine renders the report line "<total>    <locked>    <percent>%".
func FormatLine(c ClassCount) string {
	var sb strings.Builder

	sb.WriteString(strconv.Itoa(c.Total))
	sb.WriteString(Delimiter)
	sb.WriteString(strconv.Itoa(c.Locked))
	sb.WriteString(Delimiter)
	sb.WriteString(FormatPercent(Percent(c)))
	sb.WriteByte('%')

	return sb.String()
}
