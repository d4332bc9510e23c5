package fpa

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestBooks_Revenue(t *testing.T) {
	b := testBooks(t)
	june := On(month(2025, time.June))

	tests := []struct {
		name   string
		entity string
		want   Money
	}{
		{"all entities", "", usd(147500)},
		{"single entity", "ParentCo", usd(120000)},
		{"entity ignores case", "emea", usd(27500)},
		{"unknown entity", "Nowhere", usd(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Revenue(june, tt.entity)
			if err != nil {
				t.Fatalf("Revenue() failed: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Revenue() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestBooks_EBITDAIdentity asserts EBITDA = Revenue - COGS - Opex for every
// month and entity of the fixture, computed on the same exact amounts.
func TestBooks_EBITDAIdentity(t *testing.T) {
	b := testBooks(t)

	for _, entity := range []string{"", "ParentCo", "EMEA"} {
		for m := range NewRange(month(2025, time.April), month(2025, time.June)).Months() {
			r := On(m)
			rev, err := b.Revenue(r, entity)
			if err != nil {
				t.Fatalf("Revenue() failed: %v", err)
			}
			cogs, err := b.COGS(r, entity)
			if err != nil {
				t.Fatalf("COGS() failed: %v", err)
			}
			opex, err := b.OpexTotal(r, entity)
			if err != nil {
				t.Fatalf("OpexTotal() failed: %v", err)
			}
			ebitda, err := b.EBITDA(r, entity)
			if err != nil {
				t.Fatalf("EBITDA() failed: %v", err)
			}
			if want := rev.Sub(cogs).Sub(opex); !ebitda.Equal(want) {
				t.Errorf("EBITDA(%v, %q) = %v, want %v", m, entity, ebitda, want)
			}
		}
	}
}

func TestBooks_EBITDA(t *testing.T) {
	b := testBooks(t)
	got, err := b.EBITDA(On(month(2025, time.June)), "")
	if err != nil {
		t.Fatalf("EBITDA() failed: %v", err)
	}
	if !got.Equal(usd(42300)) {
		t.Errorf("EBITDA() = %v, want %v", got, usd(42300))
	}
}

func TestBooks_GrossMargin(t *testing.T) {
	b := testBooks(t)

	t.Run("defined", func(t *testing.T) {
		pct, ok, err := b.GrossMargin(On(month(2025, time.June)), "")
		if err != nil {
			t.Fatalf("GrossMargin() failed: %v", err)
		}
		if !ok {
			t.Fatal("GrossMargin() ok = false, want true")
		}
		if !pct.Equal(80) {
			t.Errorf("GrossMargin() = %v, want 80%%", pct)
		}
	})

	t.Run("undefined on zero revenue", func(t *testing.T) {
		pct, ok, err := b.GrossMargin(On(month(2025, time.January)), "")
		if err != nil {
			t.Fatalf("GrossMargin() failed: %v", err)
		}
		if ok {
			t.Errorf("GrossMargin() = %v, ok = true, want undefined", pct)
		}
	})
}

func TestBooks_OpexByCategory(t *testing.T) {
	b := testBooks(t)
	june := On(month(2025, time.June))

	rows, err := b.OpexByCategory(june, "")
	if err != nil {
		t.Fatalf("OpexByCategory() failed: %v", err)
	}

	want := []CategoryAmount{
		{"R&D", usd(31000)},
		{"Sales", usd(27000)},
		{"Admin", usd(10000)},
		{"Marketing", usd(7700)}, // 7,000 EUR at 1.10
	}
	if len(rows) != len(want) {
		t.Fatalf("OpexByCategory() returned %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i].Category != want[i].Category || !rows[i].Amount.Equal(want[i].Amount) {
			t.Errorf("OpexByCategory()[%d] = %s %v, want %s %v",
				i, rows[i].Category, rows[i].Amount, want[i].Category, want[i].Amount)
		}
	}

	// The breakdown must sum to the total, exactly.
	total, err := b.OpexTotal(june, "")
	if err != nil {
		t.Fatalf("OpexTotal() failed: %v", err)
	}
	sum := usd(0)
	for _, row := range rows {
		sum = sum.Add(row.Amount)
	}
	if !sum.Equal(total) {
		t.Errorf("OpexByCategory() sums to %v, want %v", sum, total)
	}
}

func TestBooks_Compare(t *testing.T) {
	b := testBooks(t)

	t.Run("june revenue", func(t *testing.T) {
		cmp, err := b.Compare(MetricRevenue, On(month(2025, time.June)), "")
		if err != nil {
			t.Fatalf("Compare() failed: %v", err)
		}
		if !cmp.Actual.Equal(usd(147500)) {
			t.Errorf("Compare() Actual = %v, want %v", cmp.Actual, usd(147500))
		}
		if !cmp.Budget.Equal(usd(125000)) {
			t.Errorf("Compare() Budget = %v, want %v", cmp.Budget, usd(125000))
		}
		if !cmp.Variance.Equal(usd(22500)) {
			t.Errorf("Compare() Variance = %v, want %v", cmp.Variance, usd(22500))
		}
		if !cmp.PctDefined || !cmp.VariancePct.Equal(18) {
			t.Errorf("Compare() VariancePct = %v, %v, want 18%%, true", cmp.VariancePct, cmp.PctDefined)
		}
	})

	// No budget was loaded for May: the variance is the whole actual and
	// the percentage is undefined.
	t.Run("month without budget", func(t *testing.T) {
		cmp, err := b.Compare(MetricRevenue, On(month(2025, time.May)), "")
		if err != nil {
			t.Fatalf("Compare() failed: %v", err)
		}
		if !cmp.Actual.Equal(usd(133980)) {
			t.Errorf("Compare() Actual = %v, want %v", cmp.Actual, usd(133980))
		}
		if !cmp.Budget.IsZero() {
			t.Errorf("Compare() Budget = %v, want zero", cmp.Budget)
		}
		if cmp.PctDefined {
			t.Errorf("Compare() PctDefined = true, want false on zero budget")
		}
		if !cmp.Variance.Equal(cmp.Actual) {
			t.Errorf("Compare() Variance = %v, want %v", cmp.Variance, cmp.Actual)
		}
	})

	t.Run("opex", func(t *testing.T) {
		cmp, err := b.Compare(MetricOpex, On(month(2025, time.June)), "")
		if err != nil {
			t.Fatalf("Compare() failed: %v", err)
		}
		if !cmp.Actual.Equal(usd(75700)) || !cmp.Budget.Equal(usd(74000)) {
			t.Errorf("Compare() = %v vs %v, want 75700 vs 74000", cmp.Actual, cmp.Budget)
		}
		if !cmp.VariancePct.Equal(Percent(100 * 1700.0 / 74000.0)) {
			t.Errorf("Compare() VariancePct = %v", cmp.VariancePct)
		}
	})
}

func TestBooks_Trend(t *testing.T) {
	b := testBooks(t)
	window := NewRange(month(2025, time.April), month(2025, time.June))

	t.Run("revenue", func(t *testing.T) {
		s, err := b.Trend(MetricRevenue, window, "")
		if err != nil {
			t.Fatalf("Trend() failed: %v", err)
		}
		if s.Unit != UnitUSD {
			t.Errorf("Trend() Unit = %v, want %v", s.Unit, UnitUSD)
		}
		want := []float64{121600, 133980, 147500}
		if len(s.Points) != len(want) {
			t.Fatalf("Trend() returned %d points, want %d", len(s.Points), len(want))
		}
		for i, p := range s.Points {
			if !p.Defined || p.Number.InexactFloat64() != want[i] {
				t.Errorf("Trend()[%d] = %v (defined %v), want %v", i, p.Number, p.Defined, want[i])
			}
		}
	})

	t.Run("gross margin skips empty months", func(t *testing.T) {
		s, err := b.Trend(MetricGrossMargin, NewRange(month(2025, time.March), month(2025, time.June)), "")
		if err != nil {
			t.Fatalf("Trend() failed: %v", err)
		}
		if s.Unit != UnitPercent {
			t.Errorf("Trend() Unit = %v, want %v", s.Unit, UnitPercent)
		}
		if s.Points[0].Defined {
			t.Error("Trend() March point is defined, want undefined on zero revenue")
		}
		last := s.Points[len(s.Points)-1]
		if !last.Defined || last.Number.InexactFloat64() != 80 {
			t.Errorf("Trend() June point = %v (defined %v), want 80", last.Number, last.Defined)
		}
	})
}

func TestBooks_MissingRate(t *testing.T) {
	actuals := NewLedger()
	actuals.Append(entry("2025-06", "EMEA", "Revenue", 1000, "EUR"))
	b := NewBooks(actuals, nil, nil, nil)

	_, err := b.Revenue(On(month(2025, time.June)), "")
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("Revenue() error = %v, want a MissingRateError", err)
	}
	if missing.Currency != "EUR" {
		t.Errorf("MissingRateError.Currency = %q, want EUR", missing.Currency)
	}
}

func TestNewStatement(t *testing.T) {
	b := testBooks(t)
	window := NewRange(month(2025, time.April), month(2025, time.June))

	st, err := NewStatement(b, window, "")
	if err != nil {
		t.Fatalf("NewStatement() failed: %v", err)
	}

	if len(st.Months) != 3 {
		t.Fatalf("NewStatement() returned %d months, want 3", len(st.Months))
	}
	if want := []string{"Admin", "Marketing", "R&D", "Sales"}; !slices.Equal(st.Categories, want) {
		t.Errorf("NewStatement() Categories = %v, want %v", st.Categories, want)
	}

	june := st.Months[2]
	if !june.Revenue.Equal(usd(147500)) || !june.EBITDA.Equal(usd(42300)) {
		t.Errorf("June statement = revenue %v, EBITDA %v, want 147500 and 42300", june.Revenue, june.EBITDA)
	}
	if !june.GrossMarginOK || !june.GrossMarginPct.Equal(80) {
		t.Errorf("June gross margin = %v, %v, want 80%%, true", june.GrossMarginPct, june.GrossMarginOK)
	}

	// The per-category amounts of a month sum to its opex total.
	sum := usd(0)
	for _, ca := range june.OpexBy {
		sum = sum.Add(ca.Amount)
	}
	if !sum.Equal(june.Opex) {
		t.Errorf("June-by-category sums to %v, want %v", sum, june.Opex)
	}
	if !june.Amount("Marketing").Equal(usd(7700)) {
		t.Errorf("June Amount(Marketing) = %v, want %v", june.Amount("Marketing"), usd(7700))
	}
}
