package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/lockcov/pkg/config"
	"github.com/Sumatoshi-tech/lockcov/pkg/lockcov"
	"github.com/Sumatoshi-tech/lockcov/pkg/report"
)

func sampleResult(t *testing.T) *lockcov.Result {
	t.Helper()

	plain := lockcov.NewEvent(lockcov.CategoryNoOperand, 96)
	enter := lockcov.NewEvent(lockcov.CategoryNoOperand, 194)
	exit := lockcov.NewEvent(lockcov.CategoryNoOperand, 195)

	unit := lockcov.ClassUnit{
		Name:   "com/example/Counter",
		Fields: []lockcov.FieldDecl{{Name: "count", Descriptor: "I"}},
		Methods: []lockcov.MethodUnit{
			{Name: "increment", Descriptor: "()V", Synchronized: true, Events: []lockcov.InstructionEvent{plain, plain}},
			{Name: "guarded", Descriptor: "()V", Events: []lockcov.InstructionEvent{enter, plain, exit, exit, plain, plain}},
		},
	}

	var a lockcov.Analyzer

	res, err := a.Analyze(context.Background(), unit)
	require.NoError(t, err)

	return res
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, sampleResult(t), report.Options{Format: config.FormatText}))

	// 2/2 + 6/3.
	assert.Equal(t, "8    5    62.5%\n", buf.String())
}

func TestWrite_DefaultIsText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, &lockcov.Result{Class: "Empty"}, report.Options{}))
	assert.Equal(t, "0    0    0.0%\n", buf.String())
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, sampleResult(t), report.Options{Format: config.FormatJSON}))

	var got report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "com/example/Counter", got.Class)
	assert.Equal(t, 8, got.Total)
	assert.Equal(t, 5, got.Locked)
	assert.InDelta(t, 62.5, got.Percent, 1e-9)
	assert.Equal(t, 2, got.Methods)
	assert.Equal(t, 1, got.Fields)
	require.Len(t, got.MethodReports, 2)
	assert.True(t, got.MethodReports[0].Synchronized)
	assert.InDelta(t, 50.0, got.MethodReports[1].Percent, 1e-9)

	require.NoError(t, report.ValidateJSON(buf.Bytes()))
}

func TestWrite_JSONEmptyClassMatchesSchema(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, &lockcov.Result{Class: "Empty"}, report.Options{Format: config.FormatJSON}))
	assert.Contains(t, buf.String(), `"method_reports": []`)
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, sampleResult(t), report.Options{Format: config.FormatYAML}))

	var got report.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "com/example/Counter", got.Class)
	assert.Equal(t, 5, got.Locked)
	require.Len(t, got.MethodReports, 2)
	assert.Equal(t, "guarded", got.MethodReports[1].Name)
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, sampleResult(t), report.Options{Format: config.FormatTable, NoColor: true}))

	out := buf.String()
	assert.Contains(t, out, "com/example/Counter")
	assert.Contains(t, out, "increment()V")
	assert.Contains(t, out, "guarded()V")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "62.5%")
	assert.NotContains(t, out, "\x1b[")
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := report.Write(&bytes.Buffer{}, sampleResult(t), report.Options{Format: "xml"})
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestValidateJSON_RejectsBadDocument(t *testing.T) {
	t.Parallel()

	err := report.ValidateJSON([]byte(`{"class": "X", "total": -1}`))
	require.ErrorIs(t, err, report.ErrSchemaViolation)
}
