package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/lockcov/pkg/lockcov"
)

// Percent thresholds for colouring the locked share.
const (
	heatHigh = 50.0
	heatLow  = 0.0
)

func writeTable(w io.Writer, rep Report, noColor bool) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(rep.Class)

	tbl.AppendHeader(table.Row{"Method", "Sync", "Events", "Total", "Locked", "Locked %"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	for _, m := range rep.MethodReports {
		tbl.AppendRow(table.Row{
			m.Name + m.Descriptor,
			syncMark(m.Synchronized),
			m.Events,
			m.Total,
			m.Locked,
			heat(m.Percent, noColor),
		})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d methods, %d fields", rep.Methods, rep.Fields),
		"",
		"",
		rep.Total,
		rep.Locked,
		heat(rep.Percent, noColor),
	})

	tbl.Render()

	return nil
}

func syncMark(sync bool) string {
	if sync {
		return "yes"
	}

	return ""
}

// heat renders a percentage, coloured by how much of the code runs locked.
func heat(p float64, noColor bool) string {
	var c *color.Color

	switch {
	case p >= heatHigh:
		c = color.New(color.FgRed)
	case p > heatLow:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgGreen)
	}

	if noColor {
		c.DisableColor()
	}

	return c.Sprint(lockcov.FormatPercent(p) + "%")
}
