package fpa

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// testBooks builds a small two-entity, two-currency set of books covering
// April to June 2025, with a June budget and four months of cash balances.
//
// June in USD terms, for reference in the tests:
//
//	Revenue  120,000 + 25,000 EUR at 1.10 = 147,500
//	COGS      29,500  (gross margin 80%)
//	Opex      27,000 + 31,000 + 10,000 + 7,000 EUR at 1.10 = 75,700
//	EBITDA    42,300
func testBooks(t *testing.T) *Books {
	t.Helper()

	actuals := NewLedger()
	actuals.Append(
		entry("2025-04", "ParentCo", "Revenue", 100000, USD),
		entry("2025-04", "EMEA", "Revenue", 20000, "EUR"),
		entry("2025-04", "ParentCo", "COGS", 30000, USD),
		entry("2025-04", "ParentCo", "Opex:Sales", 25000, USD),
		entry("2025-04", "ParentCo", "Opex:R&D", 30000, USD),
		entry("2025-04", "ParentCo", "Opex:Admin", 10000, USD),
		entry("2025-04", "EMEA", "Opex:Marketing", 5000, "EUR"),

		entry("2025-05", "ParentCo", "Revenue", 110000, USD),
		entry("2025-05", "EMEA", "Revenue", 22000, "EUR"),
		entry("2025-05", "ParentCo", "COGS", 33000, USD),
		entry("2025-05", "ParentCo", "Opex:Sales", 26000, USD),
		entry("2025-05", "ParentCo", "Opex:R&D", 30000, USD),
		entry("2025-05", "ParentCo", "Opex:Admin", 10000, USD),
		entry("2025-05", "EMEA", "Opex:Marketing", 6000, "EUR"),

		entry("2025-06", "ParentCo", "Revenue", 120000, USD),
		entry("2025-06", "EMEA", "Revenue", 25000, "EUR"),
		entry("2025-06", "ParentCo", "COGS", 29500, USD),
		entry("2025-06", "ParentCo", "Opex:Sales", 27000, USD),
		entry("2025-06", "ParentCo", "Opex:R&D", 31000, USD),
		entry("2025-06", "ParentCo", "Opex:Admin", 10000, USD),
		entry("2025-06", "EMEA", "Opex:Marketing", 7000, "EUR"),
	)

	budget := NewLedger()
	budget.Append(
		entry("2025-06", "ParentCo", "Revenue", 125000, USD),
		entry("2025-06", "ParentCo", "COGS", 30000, USD),
		entry("2025-06", "ParentCo", "Opex:Sales", 26000, USD),
		entry("2025-06", "ParentCo", "Opex:R&D", 30000, USD),
		entry("2025-06", "ParentCo", "Opex:Admin", 10000, USD),
		entry("2025-06", "ParentCo", "Opex:Marketing", 8000, USD),
	)

	rates := NewRates()
	if err := rates.Append(
		rate("2025-04", "EUR", 1.08),
		rate("2025-05", "EUR", 1.09),
		rate("2025-06", "EUR", 1.10),
	); err != nil {
		t.Fatalf("Rates.Append() failed: %v", err)
	}

	cash := NewCashStatement().
		Append(month(2025, time.March), M(1000000, USD)).
		Append(month(2025, time.April), M(950000, USD)).
		Append(month(2025, time.May), M(910000, USD)).
		Append(month(2025, time.June), M(880000, USD))

	return NewBooks(actuals, budget, rates, cash)
}

func entry(on, entity, account string, amount int, currency string) Entry {
	return Entry{Date: MustParse(on), Entity: entity, Account: Account(account), Amount: M(amount, currency)}
}

func rate(on, currency string, toUSD float64) Rate {
	return Rate{Date: MustParse(on), Currency: currency, ToUSD: decimal.NewFromFloat(toUSD)}
}

func month(year int, m time.Month) Month { return NewMonth(year, m) }

// usd builds the expected amount for comparisons.
func usd(amount float64) Money { return M(amount, USD) }
