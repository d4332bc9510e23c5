package fpa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// helpText is the Generic answer: a short guide to what can be asked.
const helpText = `I can answer questions about revenue, COGS, gross margin, opex, EBITDA and cash runway. For example:

- What was June 2025 revenue vs budget in USD?
- Show Gross Margin % trend for the last 3 months.
- Break down Opex by category for June 2025.
- What is our cash runway right now?`

// Answer classifies the question, dispatches it to the right calculators,
// and assembles the structured result.
//
// It never returns an error: data problems (a missing FX rate, too little
// cash history) come back as Message results with a human sentence, and
// unrecognized questions get the help text. The presentation layer needs no
// error handling of its own.
func (b *Books) Answer(question string) *Result {
	intent, p := Classify(question, b.Known())

	if b.Actuals.Len() == 0 && b.Budget.Len() == 0 && b.Cash.Len() == 0 {
		return &Result{Intent: intent, Kind: KindMessage,
			Message: &Message{Text: "No data loaded."}}
	}

	switch intent {
	case CashRunway:
		return b.answerRunway(p)
	case OpexBreakdown:
		return b.answerBreakdown(p)
	case GrossMarginTrend, TrendQuery:
		return b.answerTrend(intent, p)
	case RevenueVsBudget:
		return b.answerCompare(RevenueVsBudget, p)
	case EBITDA, PointQuery:
		// gross margin is a ratio: it has no budget amount to compare to.
		if p.VsBudget && p.Metric != MetricGrossMargin {
			return b.answerCompare(intent, p)
		}
		return b.answerPoint(intent, p)
	default:
		return &Result{Intent: Generic, Kind: KindMessage,
			Message: &Message{Text: helpText}}
	}
}

func (b *Books) answerRunway(p Params) *Result {
	asOf := p.Month
	if !p.HasMonth {
		asOf, _ = b.Cash.Latest()
	}
	report, err := b.Cash.Runway(asOf)
	if err != nil {
		return b.fail(CashRunway, On(asOf), p, err)
	}
	return &Result{
		Intent: CashRunway,
		Kind:   KindRunway,
		Label:  "Cash runway",
		Period: On(report.AsOf),
		Runway: &report,
	}
}

func (b *Books) answerBreakdown(p Params) *Result {
	r := On(p.Month)
	rows, err := b.OpexByCategory(r, p.Entity)
	if err != nil {
		return b.fail(OpexBreakdown, r, p, err)
	}
	total := M(0, USD)
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return &Result{
		Intent:     OpexBreakdown,
		Kind:       KindTable,
		Label:      "Opex by category",
		Period:     r,
		Entity:     p.Entity,
		Table:      &Table{Rows: rows, Total: total},
		WantsChart: true,
		Chart:      ChartBar,
	}
}

func (b *Books) answerTrend(intent Intent, p Params) *Result {
	r := LastN(p.Month, p.Months)
	s, err := b.Trend(p.Metric, r, p.Entity)
	if err != nil {
		return b.fail(intent, r, p, err)
	}
	return &Result{
		Intent:     intent,
		Kind:       KindSeries,
		Label:      p.Metric.String(),
		Period:     r,
		Entity:     p.Entity,
		Series:     &s,
		WantsChart: true,
		Chart:      ChartLine,
	}
}

func (b *Books) answerCompare(intent Intent, p Params) *Result {
	r := On(p.Month)
	cmp, err := b.Compare(p.Metric, r, p.Entity)
	if err != nil {
		return b.fail(intent, r, p, err)
	}
	return &Result{
		Intent:     intent,
		Kind:       KindComparison,
		Label:      p.Metric.String(),
		Period:     r,
		Entity:     p.Entity,
		Comparison: &cmp,
		WantsChart: true,
		Chart:      ChartBar,
	}
}

func (b *Books) answerPoint(intent Intent, p Params) *Result {
	r := On(p.Month)
	res := &Result{
		Intent: intent,
		Kind:   KindScalar,
		Label:  pointLabel(p),
		Period: r,
		Entity: p.Entity,
	}
	if p.Metric == MetricGrossMargin {
		pct, ok, err := b.GrossMargin(r, p.Entity)
		if err != nil {
			return b.fail(intent, r, p, err)
		}
		res.Scalar = &Scalar{Number: decimal.NewFromFloat(float64(pct)), Unit: UnitPercent, Defined: ok}
		return res
	}
	amount, err := b.pointAmount(p, r)
	if err != nil {
		return b.fail(intent, r, p, err)
	}
	res.Scalar = &Scalar{Number: amount.value, Unit: UnitUSD, Defined: true}
	return res
}

// pointAmount computes the money metric for a point question, narrowing
// opex to the asked category when one was mentioned.
func (b *Books) pointAmount(p Params, r Range) (Money, error) {
	if p.Metric == MetricOpex && p.Category != "" {
		return b.sumUSD(b.Actuals, r, p.Entity, func(a Account) bool {
			c, ok := a.OpexCategory()
			return ok && strings.EqualFold(c, p.Category)
		})
	}
	return b.amount(b.Actuals, p.Metric, r, p.Entity)
}

func pointLabel(p Params) string {
	if p.Metric == MetricOpex && p.Category != "" {
		return fmt.Sprintf("Opex: %s", p.Category)
	}
	return p.Metric.String()
}

// fail converts a calculator error into a Message result so it never
// escapes to the presentation layer.
func (b *Books) fail(intent Intent, r Range, p Params, err error) *Result {
	msg := &Message{Problem: ProblemInternal, Text: err.Error()}
	var rate *MissingRateError
	var hist *InsufficientHistoryError
	switch {
	case errors.As(err, &rate):
		msg.Problem = ProblemMissingRate
		msg.Text = fmt.Sprintf("Cannot compute: missing FX data for %s in %s.", rate.Currency, rate.Month)
	case errors.As(err, &hist):
		msg.Problem = ProblemInsufficientHistory
		msg.Text = fmt.Sprintf("Cannot estimate runway: need at least %d months of cash balances, got %d. Load more cash history and ask again.", hist.Need, hist.Got)
	}
	return &Result{Intent: intent, Kind: KindMessage, Period: r, Entity: p.Entity, Message: msg}
}
