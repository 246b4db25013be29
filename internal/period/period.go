// Package period turns the free-text employment periods found in resumes and
// seed data ("8 Months: January - August 2021", "Jan 2022 - Present") into
// calendar date ranges.
package period

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Range is the result of parsing a period. A nil End with a non-nil Start is
// an ongoing period; both nil means the text could not be parsed.
type Range struct {
	Start *Date `json:"start_date"`
	End   *Date `json:"end_date"`
}

// Ongoing reports whether the range has a start but no end.
func (r Range) Ongoing() bool {
	return r.Start != nil && r.End == nil
}

// Empty reports whether nothing could be parsed.
func (r Range) Empty() bool {
	return r.Start == nil && r.End == nil
}

func (r Range) String() string {
	start, end := "null", "null"
	if r.Start != nil {
		start = r.Start.String()
	}
	if r.End != nil {
		end = r.End.String()
	}
	return start + " .. " + end
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// MonthNumber resolves a full or abbreviated English month name,
// case-insensitively.
func MonthNumber(name string) (time.Month, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

var errUnknownMonth = errors.New("unknown month name")

var (
	rangeSeparator = regexp.MustCompile(`–|-`)
	monthYear      = regexp.MustCompile(`(\w+)\s+(\d{4})`)
	dayRange       = regexp.MustCompile(`(?i)(\d+)\s+Months?:\s+(\d{1,2})\s+(\w+)\s+-\s+(\d{1,2})\s+(\w+)\s+(\d{4})`)
	durationPrefix = regexp.MustCompile(`(?i)^\d+\s+Months?:\s*(.*)`)
	monthFragment  = regexp.MustCompile(`^(\w+)(?:\s+(\d{4}))?`)
)

// rule is one attempt in the chain. done stops the chain even when the
// range is empty.
type rule func(text string) (r Range, done bool)

var rules = []rule{
	parsePresent,
	parseDayRange,
	parseMonthRange,
	parseSingleDate,
}

// Parse converts a period string into a Range. It never fails: input that
// matches no known format yields an empty Range.
func Parse(text string) Range {
	text = strings.TrimSpace(text)
	if text == "" {
		return Range{}
	}
	for _, try := range rules {
		if r, done := try(text); done {
			return r
		}
	}
	return Range{}
}

// ParsePtr is Parse for nullable columns.
func ParsePtr(text *string) Range {
	if text == nil {
		return Range{}
	}
	return Parse(*text)
}

// "January 2022 - Present". Only a month-and-year start is accepted; anything
// else before "Present" (e.g. a bare year) yields an empty range.
func parsePresent(text string) (Range, bool) {
	if !strings.Contains(strings.ToLower(text), "present") {
		return Range{}, false
	}
	start := strings.TrimSpace(rangeSeparator.Split(text, 2)[0])
	m := monthYear.FindStringSubmatch(start)
	if m == nil {
		return Range{}, true
	}
	month, ok := MonthNumber(m[1])
	if !ok {
		return Range{}, true
	}
	year, _ := strconv.Atoi(m[2])
	return Range{Start: FirstOfMonth(year, month).Ptr()}, true
}

// "1 Month: 22 July - 22 August 2024"
func parseDayRange(text string) (Range, bool) {
	m := dayRange.FindStringSubmatch(text)
	if m == nil {
		return Range{}, false
	}
	year, _ := strconv.Atoi(m[6])
	start, err := dayOf(m[3], m[2], year)
	if err != nil {
		return Range{}, false
	}
	end, err := dayOf(m[5], m[4], year)
	if err != nil {
		return Range{}, false
	}
	return Range{Start: start.Ptr(), End: end.Ptr()}, true
}

func dayOf(monthName, day string, year int) (Date, error) {
	month, ok := MonthNumber(monthName)
	if !ok {
		return Date{}, errUnknownMonth
	}
	d, _ := strconv.Atoi(day)
	return NewDate(year, month, d)
}

// "8 Months: January - August 2021", "Nov 2020 - Feb 2021"
func parseMonthRange(text string) (Range, bool) {
	if m := durationPrefix.FindStringSubmatch(text); m != nil && m[1] != "" {
		text = m[1]
	}
	parts := rangeSeparator.Split(text, -1)
	if len(parts) != 2 {
		return Range{}, false
	}
	startMatch := monthFragment.FindStringSubmatch(strings.TrimSpace(parts[0]))
	endMatch := monthFragment.FindStringSubmatch(strings.TrimSpace(parts[1]))
	if startMatch == nil || endMatch == nil {
		return Range{}, false
	}

	endYear := endMatch[2]
	startYear := startMatch[2]
	if startYear == "" {
		startYear = endYear
	}
	if startYear == "" || endYear == "" {
		return Range{}, false
	}

	startMonth, ok := MonthNumber(startMatch[1])
	if !ok {
		return Range{}, false
	}
	endMonth, ok := MonthNumber(endMatch[1])
	if !ok {
		return Range{}, false
	}

	sy, _ := strconv.Atoi(startYear)
	ey, _ := strconv.Atoi(endYear)
	return Range{
		Start: FirstOfMonth(sy, startMonth).Ptr(),
		End:   LastOfMonth(ey, endMonth).Ptr(),
	}, true
}

// A single date is a one-day period.
func parseSingleDate(text string) (Range, bool) {
	d, err := ParseDate(text)
	if err != nil {
		return Range{}, true
	}
	return Range{Start: d.Ptr(), End: d.Ptr()}, true
}
