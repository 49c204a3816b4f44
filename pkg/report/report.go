// Package report renders analysis results as the canonical text line, JSON,
// YAML or a per-method table.
package report

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/lockcov/pkg/config"
	"github.com/Sumatoshi-tech/lockcov/pkg/lockcov"
)

// ErrSchemaViolation is returned when a JSON report does not match the schema.
var ErrSchemaViolation = errors.New("report does not match schema")

// ErrUnknownFormat is returned for formats outside config.Formats.
var ErrUnknownFormat = errors.New("unknown report format")

//go:embed report.schema.json
var schemaJSON []byte

// Report is the serializable form of a lockcov.Result.
type Report struct {
	Class         string      `json:"class"          yaml:"class"`
	MethodReports []MethodRow `json:"method_reports" yaml:"method_reports"`
	Total         int         `json:"total"          yaml:"total"`
	Locked        int         `json:"locked"         yaml:"locked"`
	Percent       float64     `json:"percent"        yaml:"percent"`
	Methods       int         `json:"methods"        yaml:"methods"`
	Fields        int         `json:"fields"         yaml:"fields"`
}

// MethodRow is one method of a Report.
type MethodRow struct {
	Name         string  `json:"name"         yaml:"name"`
	Descriptor   string  `json:"descriptor"   yaml:"descriptor"`
	Synchronized bool    `json:"synchronized" yaml:"synchronized"`
	Events       int     `json:"events"       yaml:"events"`
	Total        int     `json:"total"        yaml:"total"`
	Locked       int     `json:"locked"       yaml:"locked"`
	Percent      float64 `json:"percent"      yaml:"percent"`
}

// Options controls rendering.
type Options struct {
	Format  string
	NoColor bool
}

// FromResult converts an analysis result.
func FromResult(res *lockcov.Result) Report {
	rep := Report{
		Class:         res.Class,
		Total:         res.Count.Total,
		Locked:        res.Count.Locked,
		Percent:       res.Percent(),
		Methods:       res.Count.Methods,
		Fields:        res.Count.Fields,
		MethodReports: make([]MethodRow, 0, len(res.Methods)),
	}

	for _, m := range res.Methods {
		rep.MethodReports = append(rep.MethodReports, MethodRow{
			Name:         m.Name,
			Descriptor:   m.Descriptor,
			Synchronized: m.Synchronized,
			Events:       m.Events,
			Total:        m.Count.Total,
			Locked:       m.Count.Locked,
			Percent:      m.Count.Percent(),
		})
	}

	return rep
}

// Write renders res to w in the requested format.
func Write(w io.Writer, res *lockcov.Result, opts Options) error {
	switch opts.Format {
	case "", config.FormatText:
		_, err := fmt.Fprintln(w, lockcov.FormatLine(res.Count))

		return err
	case config.FormatJSON:
		return writeJSON(w, FromResult(res))
	case config.FormatYAML:
		return writeYAML(w, FromResult(res))
	case config.FormatTable:
		return writeTable(w, FromResult(res), opts.NoColor)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func writeJSON(w io.Writer, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json report: %w", err)
	}

	err = ValidateJSON(data)
	if err != nil {
		return err
	}

	data = append(data, '\n')

	_, err = w.Write(data)

	return err
}

func writeYAML(w io.Writer, rep Report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal yaml report: %w", err)
	}

	_, err = w.Write(data)

	return err
}

// ValidateJSON checks a JSON report document against the embedded schema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate report: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		msgs = append(msgs, verr.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(msgs, "; "))
}
