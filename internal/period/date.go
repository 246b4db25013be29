package period

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const layout = "2006-01-02"

// Date is a calendar date without time of day. It renders as YYYY-MM-DD in
// text, JSON and SQL.
type Date struct {
	time.Time
}

// NewDate builds a Date and rejects combinations that time.Date would
// normalise, e.g. 31 June or 29 February in a common year.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if year < 1 || year > 9999 {
		return Date{}, fmt.Errorf("year %d out of range", year)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, int(month), day)
	}
	return Date{t}, nil
}

// FirstOfMonth returns the 1st of the given month.
func FirstOfMonth(year int, month time.Month) Date {
	return Date{time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)}
}

// LastOfMonth returns the last calendar day of the given month. Day 0 of the
// following month is the day before its 1st.
func LastOfMonth(year int, month time.Month) Date {
	return Date{time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar date in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a single free-form date ("2024-07-22", "Jan 2, 2006",
// "July 22 2024", ...). Ambiguous numeric dates are read month first.
func ParseDate(s string) (d Date, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if t, perr := time.Parse(layout, s); perr == nil {
		return Date{t}, nil
	}
	if !strings.ContainsAny(s, "0123456789") {
		return Date{}, fmt.Errorf("unable to parse date: %s", s)
	}

	// dateparse can panic on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			d, err = Date{}, fmt.Errorf("unable to parse date: %s", s)
		}
	}()

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("unable to parse date: %s", s)
	}
	return FromTime(t), nil
}

// MustParseDate is ParseDate for literals in tests and defaults.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(layout)
}

// Ptr returns a pointer to a copy of d.
func (d Date) Ptr() *Date {
	return &d
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the date as YYYY-MM-DD text; both SQLite and PostgreSQL
// accept that for DATE columns.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into period.Date", src)
	}
}

func (d *Date) scanText(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	// Drivers may hand back a full timestamp for DATE columns.
	if len(s) > len(layout) {
		s = s[:len(layout)]
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return fmt.Errorf("scanning date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}
