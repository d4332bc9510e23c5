package fpa

import (
	"slices"
	"testing"
	"time"
)

func TestAccount(t *testing.T) {
	tests := []struct {
		account   Account
		isRevenue bool
		isCOGS    bool
		isOpex    bool
		category  string
		group     string
	}{
		{"Revenue", true, false, false, "", "Revenue"},
		{"COGS", false, true, false, "", "COGS"},
		{"COGS:Hosting", false, true, false, "", "COGS"},
		{"Opex:Marketing", false, false, true, "Marketing", "Opex"},
		{"Opex:R&D", false, false, true, "R&D", "Opex"},
		{"Other", false, false, false, "", "Other"},
	}

	for _, tt := range tests {
		t.Run(string(tt.account), func(t *testing.T) {
			if got := tt.account.IsRevenue(); got != tt.isRevenue {
				t.Errorf("IsRevenue() = %v, want %v", got, tt.isRevenue)
			}
			if got := tt.account.IsCOGS(); got != tt.isCOGS {
				t.Errorf("IsCOGS() = %v, want %v", got, tt.isCOGS)
			}
			if got := tt.account.IsOpex(); got != tt.isOpex {
				t.Errorf("IsOpex() = %v, want %v", got, tt.isOpex)
			}
			category, ok := tt.account.OpexCategory()
			if category != tt.category || ok != (tt.category != "") {
				t.Errorf("OpexCategory() = %q, %v, want %q, %v", category, ok, tt.category, tt.category != "")
			}
			if got := tt.account.Group(); got != tt.group {
				t.Errorf("Group() = %q, want %q", got, tt.group)
			}
		})
	}
}

// TestLedger_Append asserts the ledger stays chronologically sorted no
// matter the append order, and keeps the insertion order within a month.
func TestLedger_Append(t *testing.T) {
	l := NewLedger()
	l.Append(
		entry("2025-06", "ParentCo", "Revenue", 1, USD),
		entry("2025-04", "ParentCo", "Revenue", 2, USD),
	)
	l.Append(
		entry("2025-05", "ParentCo", "Revenue", 3, USD),
		entry("2025-04", "ParentCo", "COGS", 4, USD),
	)

	var got []string
	for e := range l.Entries(NewRange(month(2025, time.January), month(2025, time.December)), "", nil) {
		got = append(got, e.Date.String()+" "+string(e.Account))
	}
	want := []string{
		"2025-04 Revenue",
		"2025-04 COGS",
		"2025-05 Revenue",
		"2025-06 Revenue",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Entries() order = %v, want %v", got, want)
	}
}

func TestLedger_Entries(t *testing.T) {
	b := testBooks(t)
	june := On(month(2025, time.June))

	t.Run("range filter", func(t *testing.T) {
		n := 0
		for range b.Actuals.Entries(june, "", nil) {
			n++
		}
		if n != 7 {
			t.Errorf("Entries(june) yielded %d entries, want 7", n)
		}
	})

	t.Run("entity filter ignores case", func(t *testing.T) {
		n := 0
		for e := range b.Actuals.Entries(june, "parentco", nil) {
			if e.Entity != "ParentCo" {
				t.Errorf("Entries() yielded entity %q, want ParentCo", e.Entity)
			}
			n++
		}
		if n != 5 {
			t.Errorf("Entries(june, parentco) yielded %d entries, want 5", n)
		}
	})

	t.Run("account filter", func(t *testing.T) {
		for e := range b.Actuals.Entries(june, "", Account.IsOpex) {
			if !e.Account.IsOpex() {
				t.Errorf("Entries() yielded account %q, want opex only", e.Account)
			}
		}
	})

	t.Run("empty range", func(t *testing.T) {
		for e := range b.Actuals.Entries(On(month(2024, time.June)), "", nil) {
			t.Errorf("Entries() yielded %v, want none", e)
		}
	})
}

func TestLedger_Bounds(t *testing.T) {
	b := testBooks(t)

	oldest, ok := b.Actuals.Oldest()
	if !ok || oldest != month(2025, time.April) {
		t.Errorf("Oldest() = %v, %v, want 2025-04, true", oldest, ok)
	}
	latest, ok := b.Actuals.Latest()
	if !ok || latest != month(2025, time.June) {
		t.Errorf("Latest() = %v, %v, want 2025-06, true", latest, ok)
	}

	if _, ok := NewLedger().Oldest(); ok {
		t.Error("Oldest() on empty ledger returned ok")
	}
	if _, ok := NewLedger().Latest(); ok {
		t.Error("Latest() on empty ledger returned ok")
	}
}

func TestLedger_Distinct(t *testing.T) {
	b := testBooks(t)

	if got, want := b.Actuals.Entities(), []string{"EMEA", "ParentCo"}; !slices.Equal(got, want) {
		t.Errorf("Entities() = %v, want %v", got, want)
	}
	if got, want := b.Actuals.OpexCategories(), []string{"Admin", "Marketing", "R&D", "Sales"}; !slices.Equal(got, want) {
		t.Errorf("OpexCategories() = %v, want %v", got, want)
	}
	if got, want := b.Actuals.Currencies(), []string{"EUR"}; !slices.Equal(got, want) {
		t.Errorf("Currencies() = %v, want %v", got, want)
	}
}
