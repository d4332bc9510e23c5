package fpa

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAnswer_RevenueVsBudget(t *testing.T) {
	b := testBooks(t)

	res := b.Answer("What was June 2025 revenue vs budget in USD?")
	if res.Intent != RevenueVsBudget || res.Kind != KindComparison {
		t.Fatalf("Answer() = %v/%v, want %v/%v", res.Intent, res.Kind, RevenueVsBudget, KindComparison)
	}
	if res.Comparison == nil {
		t.Fatal("Answer() Comparison is nil")
	}
	if !res.Comparison.Variance.Equal(usd(22500)) {
		t.Errorf("Answer() Variance = %v, want %v", res.Comparison.Variance, usd(22500))
	}
	if !res.WantsChart || res.Chart != ChartBar {
		t.Errorf("Answer() chart = %v (wants %v), want a bar chart", res.Chart, res.WantsChart)
	}
	if res.Period != On(month(2025, time.June)) {
		t.Errorf("Answer() Period = %v, want 2025-06", res.Period)
	}
}

func TestAnswer_GrossMarginTrend(t *testing.T) {
	b := testBooks(t)

	res := b.Answer("Show Gross Margin % trend for the last 3 months.")
	if res.Intent != GrossMarginTrend || res.Kind != KindSeries {
		t.Fatalf("Answer() = %v/%v, want %v/%v", res.Intent, res.Kind, GrossMarginTrend, KindSeries)
	}
	if res.Series == nil || len(res.Series.Points) != 3 {
		t.Fatalf("Answer() Series = %+v, want 3 points", res.Series)
	}
	if !res.WantsChart || res.Chart != ChartLine {
		t.Errorf("Answer() chart = %v (wants %v), want a line chart", res.Chart, res.WantsChart)
	}
	// no month in the question: the window ends at the latest actuals month
	if want := NewRange(month(2025, time.April), month(2025, time.June)); res.Period != want {
		t.Errorf("Answer() Period = %v, want %v", res.Period, want)
	}
}

func TestAnswer_OpexBreakdown(t *testing.T) {
	b := testBooks(t)

	res := b.Answer("Break down Opex by category for June 2025.")
	if res.Intent != OpexBreakdown || res.Kind != KindTable {
		t.Fatalf("Answer() = %v/%v, want %v/%v", res.Intent, res.Kind, OpexBreakdown, KindTable)
	}
	if res.Table == nil || len(res.Table.Rows) != 4 {
		t.Fatalf("Answer() Table = %+v, want 4 rows", res.Table)
	}
	if !res.Table.Total.Equal(usd(75700)) {
		t.Errorf("Answer() Total = %v, want %v", res.Table.Total, usd(75700))
	}
	if !res.WantsChart || res.Chart != ChartBar {
		t.Errorf("Answer() chart = %v (wants %v), want a bar chart", res.Chart, res.WantsChart)
	}
}

func TestAnswer_Runway(t *testing.T) {
	b := testBooks(t)

	res := b.Answer("What is our cash runway right now?")
	if res.Intent != CashRunway || res.Kind != KindRunway {
		t.Fatalf("Answer() = %v/%v, want %v/%v", res.Intent, res.Kind, CashRunway, KindRunway)
	}
	if res.Runway == nil {
		t.Fatal("Answer() Runway is nil")
	}
	if !res.Runway.Burning || res.Runway.Months != 22.0 {
		t.Errorf("Answer() Runway = %+v, want 22 months burning", res.Runway)
	}
	if res.WantsChart {
		t.Error("Answer() wants a chart, runway needs none")
	}
}

func TestAnswer_EBITDA(t *testing.T) {
	b := testBooks(t)

	res := b.Answer("What is our EBITDA for June 2025?")
	if res.Intent != EBITDA || res.Kind != KindScalar {
		t.Fatalf("Answer() = %v/%v, want %v/%v", res.Intent, res.Kind, EBITDA, KindScalar)
	}
	if res.Scalar == nil || !res.Scalar.Defined {
		t.Fatalf("Answer() Scalar = %+v, want a defined value", res.Scalar)
	}
	if res.Scalar.Number.InexactFloat64() != 42300 {
		t.Errorf("Answer() Scalar = %v, want 42300", res.Scalar.Number)
	}
	if res.Scalar.Unit != UnitUSD {
		t.Errorf("Answer() Unit = %v, want %v", res.Scalar.Unit, UnitUSD)
	}
}

func TestAnswer_CategoryPoint(t *testing.T) {
	b := testBooks(t)

	res := b.Answer("How much did we spend on Marketing in June 2025?")
	if res.Kind != KindScalar {
		t.Fatalf("Answer() Kind = %v, want %v", res.Kind, KindScalar)
	}
	if res.Label != "Opex: Marketing" {
		t.Errorf("Answer() Label = %q, want Opex: Marketing", res.Label)
	}
	if res.Scalar.Number.InexactFloat64() != 7700 {
		t.Errorf("Answer() Scalar = %v, want 7700", res.Scalar.Number)
	}
}

func TestAnswer_Generic(t *testing.T) {
	b := testBooks(t)

	res := b.Answer("What's the weather like?")
	if res.Intent != Generic || res.Kind != KindMessage {
		t.Fatalf("Answer() = %v/%v, want %v/%v", res.Intent, res.Kind, Generic, KindMessage)
	}
	if res.Message == nil || res.Message.Problem != "" {
		t.Fatalf("Answer() Message = %+v, want plain help text", res.Message)
	}
	if !strings.Contains(res.Message.Text, "revenue") {
		t.Errorf("Answer() help text does not name the metrics: %q", res.Message.Text)
	}
	if res.WantsChart {
		t.Error("Answer() wants a chart on a generic answer")
	}
}

func TestAnswer_MissingRate(t *testing.T) {
	actuals := NewLedger()
	actuals.Append(entry("2025-06", "EMEA", "Revenue", 1000, "EUR"))
	b := NewBooks(actuals, nil, nil, nil)

	res := b.Answer("What was revenue in June 2025?")
	if res.Kind != KindMessage {
		t.Fatalf("Answer() Kind = %v, want %v", res.Kind, KindMessage)
	}
	if res.Message.Problem != ProblemMissingRate {
		t.Errorf("Answer() Problem = %q, want %q", res.Message.Problem, ProblemMissingRate)
	}
	if !strings.Contains(res.Message.Text, "EUR") || !strings.Contains(res.Message.Text, "2025-06") {
		t.Errorf("Answer() text does not name the gap: %q", res.Message.Text)
	}
}

func TestAnswer_InsufficientHistory(t *testing.T) {
	cash := NewCashStatement().
		Append(month(2025, time.May), usd(100)).
		Append(month(2025, time.June), usd(90))
	b := NewBooks(nil, nil, nil, cash)

	res := b.Answer("What is our cash runway right now?")
	if res.Kind != KindMessage {
		t.Fatalf("Answer() Kind = %v, want %v", res.Kind, KindMessage)
	}
	if res.Message.Problem != ProblemInsufficientHistory {
		t.Errorf("Answer() Problem = %q, want %q", res.Message.Problem, ProblemInsufficientHistory)
	}
}

func TestAnswer_EmptyBooks(t *testing.T) {
	b := NewBooks(nil, nil, nil, nil)

	res := b.Answer("What was revenue in June 2025?")
	if res.Kind != KindMessage {
		t.Fatalf("Answer() Kind = %v, want %v", res.Kind, KindMessage)
	}
	if res.Message.Text != "No data loaded." {
		t.Errorf("Answer() text = %q", res.Message.Text)
	}
}

// TestAnswer_JSON pins the wire shape of a message result: metadata first,
// only the payload that is set, no chart unless asked for.
func TestAnswer_JSON(t *testing.T) {
	b := NewBooks(nil, nil, nil, nil)
	res := b.Answer("hello")

	got, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	want := `{"intent":"generic","kind":"message","message":{"text":"No data loaded."}}`
	if string(got) != want {
		t.Errorf("json.Marshal() = %s, want %s", got, want)
	}
}
