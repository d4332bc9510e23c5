package fpa

import "fmt"

// SchemaError reports a malformed input table: a missing column, an
// unparseable value, or a broken invariant. It is fatal and aborts the
// session load.
type SchemaError struct {
	Table string // actuals, budget, fx or cash
	Line  int    // 1-based record number, 0 when the whole table is at fault
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Table, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Msg)
}

// schemaErrorf builds a SchemaError for a whole table.
func schemaErrorf(table string, format string, args ...any) *SchemaError {
	return &SchemaError{Table: table, Msg: fmt.Sprintf(format, args...)}
}

// schemaLineErrorf builds a SchemaError pointing at one record.
func schemaLineErrorf(table string, line int, format string, args ...any) *SchemaError {
	return &SchemaError{Table: table, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// MissingRateError reports that no FX rate exists for the exact month and
// currency a conversion needs. Rates are never forward- or back-filled, so
// the computation cannot proceed.
type MissingRateError struct {
	Month    Month
	Currency string
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no %s rate for %s in %s", USD, e.Currency, e.Month)
}

// InsufficientHistoryError reports that the cash table is too short for the
// requested computation.
type InsufficientHistoryError struct {
	Got  int // months of cash history available
	Need int // months required
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("need %d months of cash history, got %d", e.Need, e.Got)
}
