package fpa

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Kind discriminates the payload carried by a Result.
type Kind int

const (
	KindScalar Kind = iota
	KindComparison
	KindSeries
	KindTable
	KindRunway
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindComparison:
		return "comparison"
	case KindSeries:
		return "series"
	case KindTable:
		return "table"
	case KindRunway:
		return "runway"
	default:
		return "message"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Chart is the chart the presentation layer should draw, if any.
type Chart int

const (
	ChartNone Chart = iota
	ChartBar
	ChartLine
)

func (c Chart) String() string {
	switch c {
	case ChartBar:
		return "bar"
	case ChartLine:
		return "line"
	default:
		return "none"
	}
}

func (c Chart) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Unit qualifies the numbers of a scalar or series.
type Unit int

const (
	UnitUSD Unit = iota
	UnitPercent
	UnitMonths
)

func (u Unit) String() string {
	switch u {
	case UnitPercent:
		return "%"
	case UnitMonths:
		return "months"
	default:
		return USD
	}
}

func (u Unit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// Unit returns the unit a metric's values carry.
func (m Metric) Unit() Unit {
	if m == MetricGrossMargin {
		return UnitPercent
	}
	return UnitUSD
}

// Scalar is a single number with its unit.
type Scalar struct {
	Number  decimal.Decimal `json:"number"`
	Unit    Unit            `json:"unit"`
	Defined bool            `json:"defined"` // false for undefined ratios
}

// Table is a category-by-category breakdown with its total.
type Table struct {
	Rows  []CategoryAmount `json:"rows"`
	Total Money            `json:"total"`
}

// Problem kinds carried by Message results.
const (
	ProblemMissingRate         = "missing-rate"
	ProblemInsufficientHistory = "insufficient-history"
	ProblemInternal            = "error"
)

// Message is a non-numeric answer: help text or a data problem.
type Message struct {
	Problem string `json:"problem,omitempty"` // one of the Problem kinds, "" for plain help text
	Text    string `json:"text"`
}

// Result is the structured answer to one question, created fresh per query
// and owned by the caller. Exactly one payload field is set, according to
// Kind; the metadata is enough for the presentation layer to render text
// and chart without recomputation.
type Result struct {
	Intent Intent
	Kind   Kind
	Label  string // what was measured, e.g. "Revenue"
	Period Range  // months the answer covers
	Entity string // "" when aggregated across all entities

	Scalar     *Scalar
	Comparison *Comparison
	Series     *Series
	Table      *Table
	Runway     *RunwayReport
	Message    *Message

	WantsChart bool
	Chart      Chart
}

// MarshalJSON emits the result with its metadata first and only the payload
// that is set.
func (r *Result) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("intent", r.Intent)
	w.Append("kind", r.Kind)
	w.Optional("label", r.Label)
	if !r.Period.From.IsZero() {
		w.Append("period", r.Period.String())
	}
	w.Optional("entity", r.Entity)
	w.Optional("scalar", r.Scalar)
	w.Optional("comparison", r.Comparison)
	w.Optional("series", r.Series)
	w.Optional("table", r.Table)
	w.Optional("runway", r.Runway)
	w.Optional("message", r.Message)
	if r.WantsChart {
		w.Append("chart", r.Chart)
	}
	return w.MarshalJSON()
}

var _ json.Marshaler = (*Result)(nil)
