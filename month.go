package fpa

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MonthFormat is the format used to represent months as strings.
const MonthFormat = "2006-01"

// readMonthFormats are the permissive read formats (single-digit month, or a
// full date whose day component is ignored).
var readMonthFormats = []string{"2006-1", "2006-1-2"}

// Month represents a calendar month, the finest time granularity of the
// financial tables.
type Month struct {
	y int        // year
	m time.Month // month
}

// NewMonth returns a normalized Month for the given year and month.
func NewMonth(year int, month time.Month) Month {
	m := Month{year, month}
	y, mm, _ := m.time().Date()
	return Month{y, mm}
}

// Year returns the year of the month.
func (m Month) Year() int { return m.y }

// Month returns the month within the year.
func (m Month) Month() time.Month { return m.m }

// String formats the month as "2006-01".
func (m Month) String() string { return m.time().Format(MonthFormat) }

// IsZero returns true if the month is the zero value.
func (m Month) IsZero() bool { return m.y == 0 && m.m == 0 }

// time returns a time.Time that is a canonical representation of that month
// (first day, at midnight UTC).
func (m Month) time() time.Time { return time.Date(m.y, m.m, 1, 0, 0, 0, 0, time.UTC) }

// Format returns a textual representation of the month formatted according to
// the layout defined by the argument.
//
//	See the documentation for [time.Time.Format].
func (m Month) Format(format string) string { return m.time().Format(format) }

// Label formats the month for humans, e.g. "June 2025".
func (m Month) Label() string { return m.time().Format("January 2006") }

// Before reports whether the month m is before x.
func (m Month) Before(x Month) bool { return m.time().Before(x.time()) }

// After reports whether the month m is after x.
func (m Month) After(x Month) bool { return m.time().After(x.time()) }

// Compare compares m and x, returning -1, 0 or +1.
func (m Month) Compare(x Month) int { return m.time().Compare(x.time()) }

// Now returns the current time.
// Tests override the clock with the CFO_TESTING_NOW environment variable.
func Now() time.Time {
	if v := os.Getenv("CFO_TESTING_NOW"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			panic(err)
		}
		return t
	}
	return time.Now()
}

// ThisMonth returns the current calendar month.
func ThisMonth() Month {
	y, mm, _ := Now().Date()
	return NewMonth(y, mm)
}

// Add returns a new Month with the given number of months added.
func (m Month) Add(i int) Month { return NewMonth(m.y, m.m+time.Month(i)) }

// monthsByPrefix resolves the usual three-letter month abbreviations.
var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var monthNameRE = regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{4})$`)

// ParseMonth parses a Month from a string. It is lenient and accepts "2025-7",
// a full date like "2025-07-15" (the day is ignored), and spelled-out forms
// like "July 2025" or "jul 2025".
func ParseMonth(str string) (Month, error) {
	str = strings.TrimSpace(str)

	if match := monthNameRE.FindStringSubmatch(str); match != nil {
		year, err := strconv.Atoi(match[2])
		if err != nil {
			// This should not happen given the regex
			return Month{}, fmt.Errorf("invalid year in month %q: %w", str, err)
		}
		return NewMonth(year, monthsByPrefix[strings.ToLower(match[1])]), nil
	}

	for _, format := range readMonthFormats {
		if on, err := time.Parse(format, str); err == nil {
			y, mm, _ := on.Date()
			return NewMonth(y, mm), nil
		}
	}
	return Month{}, fmt.Errorf("invalid month %q want format %q", str, MonthFormat)
}

// MustParse is like ParseMonth but panics on error.
func MustParse(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// UnmarshalJSON implements the json specific way to unmarshal a month from a
// json string.
func (j *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if str == "" {
		*j = Month{}
		return nil
	}
	m, err := ParseMonth(str)
	if err != nil {
		return fmt.Errorf("invalid month %q in data file, want format %q: %w", str, MonthFormat, err)
	}
	*j = m
	return nil
}

func (j Month) MarshalJSON() ([]byte, error) {
	if j.IsZero() {
		return json.Marshal("")
	}
	str := j.String()
	return json.Marshal(&str)
}

// check that a Month pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)
