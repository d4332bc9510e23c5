package fpa

import (
	"iter"
	"slices"
	"sort"
	"strings"
)

// opexPrefix is the account naming convention for operating expenses: the
// category is the suffix after the colon, e.g. "Opex:Marketing".
const opexPrefix = "Opex:"

// Account names a ledger line item. Accounts are hierarchical by convention:
// "Revenue", any "COGS" prefix, and "Opex:<Category>".
type Account string

// IsRevenue reports whether the account is the revenue account.
func (a Account) IsRevenue() bool { return a == "Revenue" }

// IsCOGS reports whether the account is a cost-of-goods-sold account.
func (a Account) IsCOGS() bool { return strings.HasPrefix(string(a), "COGS") }

// IsOpex reports whether the account is an operating expense account.
func (a Account) IsOpex() bool { return strings.HasPrefix(string(a), opexPrefix) }

// OpexCategory returns the opex category of the account, e.g. "Marketing"
// for "Opex:Marketing". ok is false for non-opex accounts.
func (a Account) OpexCategory() (category string, ok bool) {
	if !a.IsOpex() {
		return "", false
	}
	return string(a[len(opexPrefix):]), true
}

// Group returns the account group, the prefix before the first colon.
func (a Account) Group() string {
	if i := strings.IndexByte(string(a), ':'); i >= 0 {
		return string(a[:i])
	}
	return string(a)
}

// Entry is a single actuals or budget line: what was earned or spent by one
// entity, on one account, in one month.
type Entry struct {
	Date    Month
	Entity  string
	Account Account
	Amount  Money
}

// Ledger represents a list of entries.
//
// In a Ledger entries are always in chronological order. Entries are
// immutable once loaded; the collection is append-only for a session.
type Ledger struct {
	entries []Entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make([]Entry, 0)}
}

// Append appends entries to this ledger and maintains the chronological order.
func (l *Ledger) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
	l.stableSort()
}

// stableSort sorts the ledger by entry month. The sort is stable, meaning
// entries in the same month maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Date.Before(l.entries[j].Date)
	})
}

// Len returns the number of entries in the ledger.
func (l *Ledger) Len() int { return len(l.entries) }

// Entries returns an iterator over the entries within the range, in
// chronological order, keeping only those matching the entity (empty entity
// matches all, comparison ignores case) and the account predicate (nil
// predicate matches all).
func (l *Ledger) Entries(r Range, entity string, match func(Account) bool) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if e.Date.After(r.To) {
				return // entries are sorted
			}
			if e.Date.Before(r.From) {
				continue
			}
			if entity != "" && !strings.EqualFold(e.Entity, entity) {
				continue
			}
			if match != nil && !match(e.Account) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Oldest returns the month of the earliest entry in the ledger.
// ok is false if the ledger is empty.
func (l *Ledger) Oldest() (m Month, ok bool) {
	if len(l.entries) == 0 {
		return Month{}, false
	}
	return l.entries[0].Date, true
}

// Latest returns the month of the most recent entry in the ledger.
// ok is false if the ledger is empty.
func (l *Ledger) Latest() (m Month, ok bool) {
	if len(l.entries) == 0 {
		return Month{}, false
	}
	return l.entries[len(l.entries)-1].Date, true
}

// Entities returns the distinct entity names present in the ledger, sorted.
func (l *Ledger) Entities() []string {
	return l.distinct(func(e Entry) (string, bool) { return e.Entity, e.Entity != "" })
}

// OpexCategories returns the distinct opex categories present in the ledger,
// sorted.
func (l *Ledger) OpexCategories() []string {
	return l.distinct(func(e Entry) (string, bool) { return e.Account.OpexCategory() })
}

// Currencies returns the distinct non-USD currencies present in the ledger,
// sorted. These are the currencies that need an FX rate to be reportable.
func (l *Ledger) Currencies() []string {
	return l.distinct(func(e Entry) (string, bool) {
		c := e.Amount.Currency()
		return c, c != "" && c != USD
	})
}

func (l *Ledger) distinct(key func(Entry) (string, bool)) []string {
	seen := make(map[string]bool)
	for _, e := range l.entries {
		if k, ok := key(e); ok {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
