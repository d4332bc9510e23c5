package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/etnz/fpa"
)

// barWidth is the block count of the longest bar.
const barWidth = 40

// chartRow is one labeled bar of a text bar chart.
type chartRow struct {
	Label string
	Value float64
	Text  string
}

// barChart draws one horizontal bar per row, scaled to the largest
// magnitude. Returns "" when there is nothing to draw.
func barChart(rows []chartRow) string {
	maxAbs, labelWidth := 0.0, 0
	for _, row := range rows {
		maxAbs = math.Max(maxAbs, math.Abs(row.Value))
		labelWidth = max(labelWidth, len(row.Label))
	}
	if maxAbs == 0 {
		return ""
	}

	var b strings.Builder
	for _, row := range rows {
		n := int(math.Round(math.Abs(row.Value) / maxAbs * barWidth))
		if n == 0 && row.Value != 0 {
			n = 1
		}
		fmt.Fprintf(&b, "%-*s %s %s\n", labelWidth, row.Label, strings.Repeat("█", n), row.Text)
	}
	return b.String()
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// sparkline draws a series as one glyph per month, scaled between the
// series min and max. Undefined points show as '·'. Returns "" when no
// point is defined.
func sparkline(points []fpa.Point) string {
	lo, hi, defined := math.Inf(1), math.Inf(-1), false
	for _, p := range points {
		if !p.Defined {
			continue
		}
		v := p.Number.InexactFloat64()
		lo, hi, defined = math.Min(lo, v), math.Max(hi, v), true
	}
	if !defined {
		return ""
	}

	var b strings.Builder
	for _, p := range points {
		switch {
		case !p.Defined:
			b.WriteRune('·')
		case hi == lo:
			b.WriteRune(sparks[len(sparks)/2])
		default:
			v := p.Number.InexactFloat64()
			i := int(math.Round((v - lo) / (hi - lo) * float64(len(sparks)-1)))
			b.WriteRune(sparks[i])
		}
	}
	return b.String()
}
