package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriod(t *testing.T) {
	tests := []struct {
		name        string
		year, month int
		expectError bool
	}{
		{name: "january", year: 2025, month: 1},
		{name: "december", year: 2025, month: 12},
		{name: "month zero", year: 2025, month: 0, expectError: true},
		{name: "month thirteen", year: 2025, month: 13, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPeriod(tt.year, tt.month)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.year, p.Year())
			assert.Equal(t, tt.month, p.Month())
		})
	}
}

func TestPeriodFromDate(t *testing.T) {
	date := time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
	p := PeriodFromDate(date)
	assert.Equal(t, 2025, p.Year())
	assert.Equal(t, 3, p.Month())
	assert.True(t, p.Contains(date))
	assert.False(t, p.Contains(date.AddDate(0, 1, 0)))
}

func TestPeriodOrdering(t *testing.T) {
	feb, _ := NewPeriod(2025, 2)
	mar, _ := NewPeriod(2025, 3)
	dec24, _ := NewPeriod(2024, 12)

	assert.True(t, feb.Before(mar))
	assert.True(t, mar.After(feb))
	assert.True(t, dec24.Before(feb))
	assert.Equal(t, 0, feb.Compare(feb))
	assert.Negative(t, dec24.Compare(mar))
}

func TestPeriodNextPrevious(t *testing.T) {
	dec, _ := NewPeriod(2024, 12)
	jan, _ := NewPeriod(2025, 1)

	assert.Equal(t, jan, dec.Next())
	assert.Equal(t, dec, jan.Previous())
}

func TestPeriodParseAndString(t *testing.T) {
	p, err := ParsePeriod("2025-03")
	require.NoError(t, err)
	assert.Equal(t, "2025-03", p.String())

	_, err = ParsePeriod("not-a-period")
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = ParsePeriod("2025-13")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
