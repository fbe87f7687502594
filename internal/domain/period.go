package domain

import (
	"fmt"
	"time"
)

// Period identifies one installment period as a calendar year-month.
type Period struct {
	year  int
	month int
}

// NewPeriod creates a Period, validating the month range.
func NewPeriod(year, month int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	return Period{year: year, month: month}, nil
}

// PeriodFromDate derives the period containing the given date.
func PeriodFromDate(date time.Time) Period {
	return Period{year: date.Year(), month: int(date.Month())}
}

// CurrentPeriod returns the period containing the current date.
func CurrentPeriod() Period {
	return PeriodFromDate(time.Now())
}

// ParsePeriod parses the "YYYY-MM" form produced by String.
func ParsePeriod(s string) (Period, error) {
	var year, month int
	if _, err := fmt.Sscanf(s, "%d-%d", &year, &month); err != nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
	return NewPeriod(year, month)
}

func (p Period) Year() int {
	return p.year
}

func (p Period) Month() int {
	return p.month
}

func (p Period) IsZero() bool {
	return p == Period{}
}

// Compare orders periods by calendar sequence: negative if p precedes other.
func (p Period) Compare(other Period) int {
	if p.year != other.year {
		return p.year - other.year
	}
	return p.month - other.month
}

func (p Period) Before(other Period) bool {
	return p.Compare(other) < 0
}

func (p Period) After(other Period) bool {
	return p.Compare(other) > 0
}

// Contains reports whether the date falls inside this period.
func (p Period) Contains(date time.Time) bool {
	return PeriodFromDate(date) == p
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.month == 12 {
		return Period{year: p.year + 1, month: 1}
	}
	return Period{year: p.year, month: p.month + 1}
}

// Previous returns the preceding calendar month.
func (p Period) Previous() Period {
	if p.month == 1 {
		return Period{year: p.year - 1, month: 12}
	}
	return Period{year: p.year, month: p.month - 1}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, p.month)
}

func (p Period) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}
