package fpa

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Intent is the routed meaning of a question.
type Intent int

const (
	// Generic carries every question the classifier does not recognize.
	// It is not a failure: the orchestrator answers it with help text.
	Generic Intent = iota
	RevenueVsBudget
	GrossMarginTrend
	OpexBreakdown
	CashRunway
	EBITDA
	// PointQuery asks for a single-month value of any metric, optionally
	// compared to budget.
	PointQuery
	// TrendQuery asks for month-by-month values of any metric.
	TrendQuery
)

func (i Intent) String() string {
	switch i {
	case RevenueVsBudget:
		return "revenue-vs-budget"
	case GrossMarginTrend:
		return "gross-margin-trend"
	case OpexBreakdown:
		return "opex-breakdown"
	case CashRunway:
		return "cash-runway"
	case EBITDA:
		return "ebitda"
	case PointQuery:
		return "point"
	case TrendQuery:
		return "trend"
	default:
		return "generic"
	}
}

func (i Intent) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// defaultWindow is the trend length when the question does not give one.
const defaultWindow = 3

// Params carries the parameters extracted from a question.
type Params struct {
	Metric   Metric
	Month    Month  // point month or trend end month
	HasMonth bool   // true when the month was spelled out in the question
	Months   int    // trend window length
	VsBudget bool   // true when the question compares against budget
	Entity   string // "" aggregates across all entities
	Category string // opex category mentioned, if any
	Raw      string // the question as asked
}

// Known is what the classifier may assume about the loaded data. It is
// derived from the Books and passed explicitly, never global state.
type Known struct {
	Latest     Month    // latest month with actuals
	Entities   []string // distinct entities in the actuals
	Categories []string // distinct opex categories in the actuals
}

// Known derives the classifier context from the loaded tables.
func (b *Books) Known() Known {
	latest, _ := b.Actuals.Latest()
	return Known{
		Latest:     latest,
		Entities:   b.Actuals.Entities(),
		Categories: b.Actuals.OpexCategories(),
	}
}

// The classification policy is a fixed precedence of keyword rules, most
// specific first. Keeping the vocabulary as data makes the rules testable
// without touching the calculators.
var (
	runwayWords    = []string{"runway"}
	breakdownWords = []string{"breakdown", "break down", "by category", "split"}
	trendWords     = []string{"trend"}
	budgetWords    = []string{"budget", "variance"}

	// metricWords maps keyword substrings to metrics, most specific first so
	// "cost of goods" wins over a later bare "goods".
	metricWords = []struct {
		word   string
		metric Metric
	}{
		{"gross margin", MetricGrossMargin},
		{"gm%", MetricGrossMargin},
		{"gm ", MetricGrossMargin},
		{"cost of goods", MetricCOGS},
		{"cogs", MetricCOGS},
		{"operating expense", MetricOpex},
		{"opex", MetricOpex},
		{"ebitda", MetricEBITDA},
		{"revenue", MetricRevenue},
		{"sales", MetricRevenue},
	}
)

var (
	monthInQuestionRE = regexp.MustCompile(`(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(20\d{2})`)
	isoMonthRE        = regexp.MustCompile(`\b(20\d{2})-(0[1-9]|1[0-2])\b`)
	lastMonthsRE      = regexp.MustCompile(`(?:last|past)\s+(\d+)\s+months?`)
	trailingRE        = regexp.MustCompile(`trailing\s+(\d+)`)
)

// Classify maps a question to an intent and its parameters. It is pure and
// never fails: an unrecognized question degrades to Generic.
func Classify(question string, known Known) (Intent, Params) {
	q := strings.ToLower(question)

	p := Params{Raw: question, Months: defaultWindow}
	metric, hasMetric := detectMetric(q)
	p.Metric = metric
	p.Month, p.HasMonth = detectMonth(q, known.Latest)
	window, hasWindow := detectWindow(q)
	if hasWindow {
		p.Months = window
	}
	p.VsBudget = containsAny(q, budgetWords)
	p.Entity = matchKnown(q, known.Entities)
	p.Category = matchKnown(q, known.Categories)

	// a known opex category with no metric word is an opex question,
	// e.g. "how much did we spend on Marketing in June?".
	if !hasMetric && p.Category != "" {
		p.Metric, hasMetric = MetricOpex, true
	}

	switch {
	case containsAny(q, runwayWords):
		return CashRunway, p
	case p.Metric == MetricOpex && hasMetric && containsAny(q, breakdownWords):
		return OpexBreakdown, p
	case containsAny(q, trendWords) || hasWindow:
		if p.Metric == MetricGrossMargin {
			return GrossMarginTrend, p
		}
		return TrendQuery, p
	case hasMetric && p.VsBudget && p.Metric == MetricRevenue:
		return RevenueVsBudget, p
	case hasMetric && p.Metric == MetricEBITDA:
		return EBITDA, p
	case hasMetric:
		return PointQuery, p
	}
	return Generic, p
}

// detectMetric finds the first metric keyword in the question. Without one
// the metric defaults to revenue, reported as not found.
func detectMetric(q string) (m Metric, ok bool) {
	for _, kw := range metricWords {
		if strings.Contains(q, kw.word) {
			return kw.metric, true
		}
	}
	return MetricRevenue, false
}

// detectMonth extracts a month from the question, either spelled out
// ("June 2025", "jun 2025") or in ISO form ("2025-06"). Without one it
// falls back to the latest month with data.
func detectMonth(q string, latest Month) (m Month, ok bool) {
	if match := monthInQuestionRE.FindStringSubmatch(q); match != nil {
		year, err := strconv.Atoi(match[2])
		if err == nil {
			return NewMonth(year, monthsByPrefix[match[1]]), true
		}
	}
	if match := isoMonthRE.FindStringSubmatch(q); match != nil {
		year, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		return NewMonth(year, time.Month(month)), true
	}
	return latest, false
}

// detectWindow extracts a trend length from "last N months" or "trailing N".
func detectWindow(q string) (n int, ok bool) {
	for _, re := range []*regexp.Regexp{lastMonthsRE, trailingRE} {
		if match := re.FindStringSubmatch(q); match != nil {
			n, err := strconv.Atoi(match[1])
			if err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// matchKnown returns the first known name mentioned in the question,
// ignoring case.
func matchKnown(q string, names []string) string {
	for _, name := range names {
		if name != "" && strings.Contains(q, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
