package fpa

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Metric identifies one of the computed financial measures.
type Metric int

const (
	MetricRevenue Metric = iota
	MetricCOGS
	MetricGrossMargin
	MetricOpex
	MetricEBITDA
)

func (m Metric) String() string {
	switch m {
	case MetricRevenue:
		return "Revenue"
	case MetricCOGS:
		return "COGS"
	case MetricGrossMargin:
		return "Gross Margin %"
	case MetricOpex:
		return "Opex"
	case MetricEBITDA:
		return "EBITDA"
	default:
		return "unknown"
	}
}

// ParseMetric parses a metric name. It accepts the forms String returns,
// ignoring case.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "revenue":
		return MetricRevenue, nil
	case "cogs":
		return MetricCOGS, nil
	case "gross margin %", "gross margin", "gm":
		return MetricGrossMargin, nil
	case "opex":
		return MetricOpex, nil
	case "ebitda":
		return MetricEBITDA, nil
	}
	return 0, fmt.Errorf("unknown metric %q", s)
}

func (m Metric) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Books bundles the session tables: actuals, budget, FX rates and cash.
// It is read-only after load, so methods are safe for concurrent use.
type Books struct {
	Actuals *Ledger
	Budget  *Ledger
	Rates   *Rates
	Cash    *CashStatement
}

// NewBooks creates a Books from the four tables. Nil tables are replaced
// with empty ones.
func NewBooks(actuals, budget *Ledger, rates *Rates, cash *CashStatement) *Books {
	if actuals == nil {
		actuals = NewLedger()
	}
	if budget == nil {
		budget = NewLedger()
	}
	if rates == nil {
		rates = NewRates()
	}
	if cash == nil {
		cash = NewCashStatement()
	}
	return &Books{Actuals: actuals, Budget: budget, Rates: rates, Cash: cash}
}

// sumUSD sums the USD-normalized amounts of the matching ledger entries.
func (b *Books) sumUSD(l *Ledger, r Range, entity string, match func(Account) bool) (Money, error) {
	total := M(0, USD)
	for e := range l.Entries(r, entity, match) {
		usd, err := b.Rates.ToUSD(e.Amount, e.Date)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(usd)
	}
	return total, nil
}

// amount computes a money metric over one ledger (actuals or budget).
// Gross margin is a ratio, not an amount, and is rejected.
func (b *Books) amount(l *Ledger, m Metric, r Range, entity string) (Money, error) {
	switch m {
	case MetricRevenue:
		return b.sumUSD(l, r, entity, Account.IsRevenue)
	case MetricCOGS:
		return b.sumUSD(l, r, entity, Account.IsCOGS)
	case MetricOpex:
		return b.sumUSD(l, r, entity, Account.IsOpex)
	case MetricEBITDA:
		rev, err := b.sumUSD(l, r, entity, Account.IsRevenue)
		if err != nil {
			return Money{}, err
		}
		cogs, err := b.sumUSD(l, r, entity, Account.IsCOGS)
		if err != nil {
			return Money{}, err
		}
		opex, err := b.sumUSD(l, r, entity, Account.IsOpex)
		if err != nil {
			return Money{}, err
		}
		return rev.Sub(cogs).Sub(opex), nil
	}
	return Money{}, fmt.Errorf("metric %s has no single amount", m)
}

// Revenue returns the USD-normalized revenue booked over the range.
func (b *Books) Revenue(r Range, entity string) (Money, error) {
	return b.amount(b.Actuals, MetricRevenue, r, entity)
}

// COGS returns the USD-normalized cost of goods sold over the range.
func (b *Books) COGS(r Range, entity string) (Money, error) {
	return b.amount(b.Actuals, MetricCOGS, r, entity)
}

// OpexTotal returns the USD-normalized operating expenses over the range.
func (b *Books) OpexTotal(r Range, entity string) (Money, error) {
	return b.amount(b.Actuals, MetricOpex, r, entity)
}

// EBITDA returns Revenue - COGS - OpexTotal over the range, exactly.
func (b *Books) EBITDA(r Range, entity string) (Money, error) {
	return b.amount(b.Actuals, MetricEBITDA, r, entity)
}

// GrossMargin returns (Revenue - COGS) / Revenue over the range. ok is
// false when revenue is zero and the margin is undefined.
func (b *Books) GrossMargin(r Range, entity string) (p Percent, ok bool, err error) {
	rev, err := b.Revenue(r, entity)
	if err != nil {
		return 0, false, err
	}
	cogs, err := b.COGS(r, entity)
	if err != nil {
		return 0, false, err
	}
	p, ok = Ratio(rev.value.Sub(cogs.value), rev.value)
	return p, ok, nil
}

// CategoryAmount is one opex category with its total.
type CategoryAmount struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// OpexByCategory returns the USD-normalized operating expenses over the
// range, grouped by category and sorted by amount descending then name.
func (b *Books) OpexByCategory(r Range, entity string) ([]CategoryAmount, error) {
	totals := make(map[string]Money)
	for e := range b.Actuals.Entries(r, entity, Account.IsOpex) {
		usd, err := b.Rates.ToUSD(e.Amount, e.Date)
		if err != nil {
			return nil, err
		}
		category, _ := e.Account.OpexCategory()
		totals[category] = totals[category].Add(usd)
	}
	out := make([]CategoryAmount, 0, len(totals))
	for category, amount := range totals {
		out = append(out, CategoryAmount{Category: category, Amount: amount})
	}
	slices.SortFunc(out, func(x, y CategoryAmount) int {
		if c := y.Amount.value.Cmp(x.Amount.value); c != 0 {
			return c
		}
		return strings.Compare(x.Category, y.Category)
	})
	return out, nil
}

// Comparison holds one metric computed over actuals and budget with its
// variance.
type Comparison struct {
	Metric      Metric  `json:"metric"`
	Actual      Money   `json:"actual"`
	Budget      Money   `json:"budget"`
	Variance    Money   `json:"variance"` // Actual - Budget
	VariancePct Percent `json:"variance_pct"`
	PctDefined  bool    `json:"pct_defined"` // false when Budget is zero
}

// Compare computes a money metric twice, over the actuals and over the
// budget tables, and returns both with the variance.
func (b *Books) Compare(m Metric, r Range, entity string) (Comparison, error) {
	actual, err := b.amount(b.Actuals, m, r, entity)
	if err != nil {
		return Comparison{}, err
	}
	budget, err := b.amount(b.Budget, m, r, entity)
	if err != nil {
		return Comparison{}, err
	}
	variance := actual.Sub(budget)
	pct, ok := Ratio(variance.value, budget.value.Abs())
	return Comparison{
		Metric:      m,
		Actual:      actual,
		Budget:      budget,
		Variance:    variance,
		VariancePct: pct,
		PctDefined:  ok,
	}, nil
}

// Point is one month of a series.
type Point struct {
	Date    Month           `json:"date"`
	Number  decimal.Decimal `json:"number"`
	Defined bool            `json:"defined"` // false when the value is undefined for that month
}

// Series is the month-by-month sequence of one metric over a range.
//
// Points are computed independently, with no running state carried between
// months.
type Series struct {
	Metric Metric  `json:"metric"`
	Unit   Unit    `json:"unit"`
	Points []Point `json:"points"`
}

// Trend computes the metric for each month of the range.
func (b *Books) Trend(m Metric, r Range, entity string) (Series, error) {
	s := Series{Metric: m, Unit: m.Unit()}
	for month := range r.Months() {
		p := Point{Date: month}
		if m == MetricGrossMargin {
			pct, ok, err := b.GrossMargin(On(month), entity)
			if err != nil {
				return Series{}, err
			}
			p.Number, p.Defined = decimal.NewFromFloat(float64(pct)), ok
		} else {
			amount, err := b.amount(b.Actuals, m, On(month), entity)
			if err != nil {
				return Series{}, err
			}
			p.Number, p.Defined = amount.value, true
		}
		s.Points = append(s.Points, p)
	}
	return s, nil
}

// StatementMonth is one month of the operating statement.
type StatementMonth struct {
	Date           Month
	Revenue        Money
	COGS           Money
	GrossProfit    Money
	GrossMarginPct Percent
	GrossMarginOK  bool
	Opex           Money
	OpexBy         []CategoryAmount
	EBITDA         Money
	EBITDAPct      Percent
	EBITDAOK       bool
}

// Amount returns the month's total for one opex category.
func (m StatementMonth) Amount(category string) Money {
	for _, ca := range m.OpexBy {
		if ca.Category == category {
			return ca.Amount
		}
	}
	return M(0, USD)
}

// Statement is the month-by-month operating summary of the books.
type Statement struct {
	Period     Range
	Entity     string
	Categories []string // distinct opex categories over the period, sorted
	Months     []StatementMonth
}

// NewStatement computes the operating statement over a range of months.
func NewStatement(b *Books, r Range, entity string) (*Statement, error) {
	st := &Statement{Period: r, Entity: entity}
	categories := make(map[string]bool)

	for month := range r.Months() {
		rev, err := b.Revenue(On(month), entity)
		if err != nil {
			return nil, err
		}
		cogs, err := b.COGS(On(month), entity)
		if err != nil {
			return nil, err
		}
		opexBy, err := b.OpexByCategory(On(month), entity)
		if err != nil {
			return nil, err
		}
		opex := M(0, USD)
		for _, ca := range opexBy {
			opex = opex.Add(ca.Amount)
			categories[ca.Category] = true
		}

		sm := StatementMonth{
			Date:        month,
			Revenue:     rev,
			COGS:        cogs,
			GrossProfit: rev.Sub(cogs),
			Opex:        opex,
			OpexBy:      opexBy,
		}
		sm.GrossMarginPct, sm.GrossMarginOK = Ratio(sm.GrossProfit.value, rev.value)
		sm.EBITDA = sm.GrossProfit.Sub(opex)
		sm.EBITDAPct, sm.EBITDAOK = Ratio(sm.EBITDA.value, rev.value)
		st.Months = append(st.Months, sm)
	}

	st.Categories = make([]string, 0, len(categories))
	for c := range categories {
		st.Categories = append(st.Categories, c)
	}
	slices.Sort(st.Categories)
	return st, nil
}
