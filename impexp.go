package fpa

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// this file contains functions to handle the session table format.
// Tables are plain CSV files with fixed schemas, easy to edit and diff.

// The four files a data directory holds.
const (
	ActualsFile = "actuals.csv"
	BudgetFile  = "budget.csv"
	FxFile      = "fx.csv"
	CashFile    = "cash.csv"
)

var (
	ledgerColumns = []string{"date", "entity", "account", "amount", "currency"}
	fxColumns     = []string{"date", "currency", "rate_to_usd"}
	cashColumns   = []string{"date", "cash_balance"}
)

// readHeader maps the required column names to their positions, ignoring
// case and extra columns.
func readHeader(table string, record []string, required []string) (map[string]int, error) {
	pos := make(map[string]int, len(record))
	for i, name := range record {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := pos[name]; !ok {
			return nil, schemaErrorf(table, "missing column %q", name)
		}
	}
	return pos, nil
}

// DecodeLedger reads actuals or budget lines from 'r' in CSV format.
//
// The required columns are date, entity, account, amount and currency, in
// any order and any case; the date is a month ("2025-06", a full date's day
// component is ignored). Any malformed record fails the decode with a
// *SchemaError naming the table and line.
func DecodeLedger(table string, r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, schemaErrorf(table, "empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s header: %w", table, err)
	}
	pos, err := readHeader(table, header, ledgerColumns)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", table, err)
		}

		date, err := ParseMonth(record[pos["date"]])
		if err != nil {
			return nil, schemaLineErrorf(table, line, "bad date %q", record[pos["date"]])
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[pos["amount"]]))
		if err != nil {
			return nil, schemaLineErrorf(table, line, "bad amount %q", record[pos["amount"]])
		}
		currency := strings.ToUpper(strings.TrimSpace(record[pos["currency"]]))
		if currency == "" {
			return nil, schemaLineErrorf(table, line, "missing currency")
		}
		account := Account(strings.TrimSpace(record[pos["account"]]))
		if account == "" {
			return nil, schemaLineErrorf(table, line, "missing account")
		}

		entries = append(entries, Entry{
			Date:    date,
			Entity:  strings.TrimSpace(record[pos["entity"]]),
			Account: account,
			Amount:  M(amount, currency),
		})
	}

	l := NewLedger()
	l.Append(entries...)
	return l, nil
}

// DecodeRates reads the FX table from 'r' in CSV format.
//
// The required columns are date, currency and rate_to_usd. Rates must be
// positive, and a (month, currency) pair may appear only once.
func DecodeRates(r io.Reader) (*Rates, error) {
	const table = "fx"
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, schemaErrorf(table, "empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s header: %w", table, err)
	}
	pos, err := readHeader(table, header, fxColumns)
	if err != nil {
		return nil, err
	}

	rates := NewRates()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", table, err)
		}

		date, err := ParseMonth(record[pos["date"]])
		if err != nil {
			return nil, schemaLineErrorf(table, line, "bad date %q", record[pos["date"]])
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(record[pos["rate_to_usd"]]))
		if err != nil {
			return nil, schemaLineErrorf(table, line, "bad rate_to_usd %q", record[pos["rate_to_usd"]])
		}
		currency := strings.ToUpper(strings.TrimSpace(record[pos["currency"]]))
		if currency == "" {
			return nil, schemaLineErrorf(table, line, "missing currency")
		}

		if err := rates.Append(Rate{Date: date, Currency: currency, ToUSD: rate}); err != nil {
			return nil, err
		}
	}
	return rates, nil
}

// DecodeCash reads the cash table from 'r' in CSV format.
//
// The required columns are date and cash_balance; balances are reporting
// currency (USD) amounts. A month appearing twice keeps the last balance.
func DecodeCash(r io.Reader) (*CashStatement, error) {
	const table = "cash"
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, schemaErrorf(table, "empty table")
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s header: %w", table, err)
	}
	pos, err := readHeader(table, header, cashColumns)
	if err != nil {
		return nil, err
	}

	cash := NewCashStatement()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", table, err)
		}

		date, err := ParseMonth(record[pos["date"]])
		if err != nil {
			return nil, schemaLineErrorf(table, line, "bad date %q", record[pos["date"]])
		}
		balance, err := decimal.NewFromString(strings.TrimSpace(record[pos["cash_balance"]]))
		if err != nil {
			return nil, schemaLineErrorf(table, line, "bad cash_balance %q", record[pos["cash_balance"]])
		}
		cash.Append(date, M(balance, USD))
	}
	return cash, nil
}

// EncodeRates writes the conversion table to 'w' in the fx.csv format,
// sorted by month then currency.
func EncodeRates(w io.Writer, rates *Rates) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fxColumns); err != nil {
		return fmt.Errorf("cannot write fx header: %w", err)
	}
	for rate := range rates.All() {
		record := []string{rate.Date.String(), rate.Currency, rate.ToUSD.String()}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write fx record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads the four session tables from dir.
//
// The files are read concurrently and the first error aborts the load; a
// *SchemaError here means the session must not start. File handles are
// released before Load returns.
func Load(dir string) (*Books, error) {
	var (
		actuals *Ledger
		budget  *Ledger
		rates   *Rates
		cash    *CashStatement
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		actuals, err = loadLedger("actuals", filepath.Join(dir, ActualsFile))
		return err
	})
	g.Go(func() (err error) {
		budget, err = loadLedger("budget", filepath.Join(dir, BudgetFile))
		return err
	})
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, FxFile))
		if err != nil {
			return fmt.Errorf("cannot load fx: %w", err)
		}
		defer f.Close()
		rates, err = DecodeRates(f)
		return err
	})
	g.Go(func() error {
		f, err := os.Open(filepath.Join(dir, CashFile))
		if err != nil {
			return fmt.Errorf("cannot load cash: %w", err)
		}
		defer f.Close()
		cash, err = DecodeCash(f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewBooks(actuals, budget, rates, cash), nil
}

func loadLedger(table, path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", table, err)
	}
	defer f.Close()
	return DecodeLedger(table, f)
}
