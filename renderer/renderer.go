// Package renderer turns the engine's structured results into markdown.
//
// It owns all presentation: number formatting, tables and the text charts.
// The engine computes, the renderer formats, and the cmd layer decides how
// the markdown reaches the terminal.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/fpa"
)

// AnswerMarkdown renders the answer to one question as a markdown string.
func AnswerMarkdown(res *fpa.Result) string {
	r := &answerRenderer{Builder: &strings.Builder{}}

	switch res.Kind {
	case fpa.KindScalar:
		r.renderScalar(res)
	case fpa.KindComparison:
		r.renderComparison(res)
	case fpa.KindSeries:
		r.renderSeries(res)
	case fpa.KindTable:
		r.renderTable(res)
	case fpa.KindRunway:
		r.renderRunway(res)
	default:
		r.Printf("%s\n", res.Message.Text)
	}
	return r.String()
}

// answerRenderer accumulates the markdown for one result.
type answerRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *answerRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

func (r *answerRenderer) title(res *fpa.Result) {
	scope := res.Period.Label()
	if res.Entity != "" {
		scope += ", " + res.Entity
	}
	r.Printf("## %s (%s)\n\n", res.Label, scope)
}

func (r *answerRenderer) renderScalar(res *fpa.Result) {
	r.title(res)
	if !res.Scalar.Defined {
		r.Printf("%s is undefined for %s: no revenue was booked.\n", res.Label, res.Period.Label())
		return
	}
	r.Printf("%s for %s: %s\n", res.Label, res.Period.Label(), scalarText(res.Scalar))
}

func (r *answerRenderer) renderComparison(res *fpa.Result) {
	r.title(res)
	c := res.Comparison

	variancePct := "n/a"
	if c.PctDefined {
		variancePct = c.VariancePct.SignedString()
	}
	r.Printf("| Metric | Actual | Budget | Variance | Variance %% |\n")
	r.Printf("|:---|---:|---:|---:|---:|\n")
	r.Printf("| %s | %s | %s | %s | %s |\n",
		c.Metric, c.Actual, c.Budget, c.Variance.SignedString(), variancePct)

	if res.WantsChart && res.Chart == fpa.ChartBar {
		r.chart(func() string {
			return barChart([]chartRow{
				{Label: "Actual", Value: c.Actual.AsFloat(), Text: c.Actual.String()},
				{Label: "Budget", Value: c.Budget.AsFloat(), Text: c.Budget.String()},
			})
		})
	}
}

func (r *answerRenderer) renderSeries(res *fpa.Result) {
	r.title(res)
	s := res.Series

	r.Printf("| Month | %s |\n", s.Metric)
	r.Printf("|:---|---:|\n")
	for _, p := range s.Points {
		value := "n/a"
		if p.Defined {
			value = pointText(s.Unit, p)
		}
		r.Printf("| %s | %s |\n", p.Date.Label(), value)
	}

	if res.WantsChart && res.Chart == fpa.ChartLine {
		r.chart(func() string {
			line := sparkline(s.Points)
			if line == "" {
				return ""
			}
			return fmt.Sprintf("%s (%s)\n", line, res.Period.Label())
		})
	}
}

func (r *answerRenderer) renderTable(res *fpa.Result) {
	r.title(res)

	r.Printf("| Category | Amount |\n")
	r.Printf("|:---|---:|\n")
	rows := make([]chartRow, 0, len(res.Table.Rows))
	for _, row := range res.Table.Rows {
		r.Printf("| %s | %s |\n", row.Category, row.Amount)
		rows = append(rows, chartRow{Label: row.Category, Value: row.Amount.AsFloat(), Text: row.Amount.String()})
	}
	r.Printf("| **Total** | **%s** |\n", res.Table.Total)

	if res.WantsChart && res.Chart == fpa.ChartBar {
		r.chart(func() string { return barChart(rows) })
	}
}

func (r *answerRenderer) renderRunway(res *fpa.Result) {
	r.title(res)
	report := res.Runway
	if !report.Burning {
		r.Printf("Cash on hand is %s and did not shrink over the last three months: no burn to project.\n", report.Cash)
		return
	}
	r.Printf("With %s on hand and an average monthly burn of %s, the estimated runway is %.1f months.\n",
		report.Cash, report.AvgBurn.Abs(), report.Months)
}

// chart writes a fenced text chart; blocks that produce nothing are discarded.
func (r *answerRenderer) chart(produce func() string) {
	ConditionalBlock(r, func(w io.Writer) bool {
		content := produce()
		if content == "" {
			return false
		}
		fmt.Fprintf(w, "\n```text\n%s```\n", content)
		return true
	})
}

// scalarText formats a scalar value with its unit.
func scalarText(s *fpa.Scalar) string {
	switch s.Unit {
	case fpa.UnitPercent:
		return fpa.Percent(s.Number.InexactFloat64()).String()
	case fpa.UnitMonths:
		return fmt.Sprintf("%.1f months", s.Number.InexactFloat64())
	default:
		return fpa.M(s.Number, fpa.USD).String()
	}
}

// pointText formats one series point with the series unit.
func pointText(unit fpa.Unit, p fpa.Point) string {
	if unit == fpa.UnitPercent {
		return fpa.Percent(p.Number.InexactFloat64()).String()
	}
	return fpa.M(p.Number, fpa.USD).String()
}
