package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an immutable value object holding a non-negative amount in cents.
// All arithmetic returns a new value.
type Money struct {
	cents int64
}

// ZeroMoney is the canonical zero amount.
var ZeroMoney = Money{}

// NewMoneyFromCents creates a Money from a cent amount.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, fmt.Errorf("%w: %d cents", ErrNegativeAmount, cents)
	}
	return Money{cents: cents}, nil
}

// NewMoneyFromDecimal converts a major-unit decimal amount to Money,
// rounding half-up at two fractional digits.
func NewMoneyFromDecimal(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeAmount, amount)
	}
	cents := amount.Round(2).Mul(decimal.NewFromInt(100)).IntPart()
	return NewMoneyFromCents(cents)
}

// NewMoneyFromString parses a major-unit decimal string into Money.
func NewMoneyFromString(amount string) (Money, error) {
	if strings.TrimSpace(amount) == "" {
		return Money{}, fmt.Errorf("%w: blank string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return NewMoneyFromDecimal(d)
}

// MustMoney creates a Money from cents and panics on a negative amount.
// Intended for constants and tests.
func MustMoney(cents int64) Money {
	m, err := NewMoneyFromCents(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Decimal returns the major-unit amount with two fractional digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns the difference, failing if the result would be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if other.cents > m.cents {
		return Money{}, fmt.Errorf("%w: %d - %d cents", ErrInsufficientAmount, m.cents, other.cents)
	}
	return Money{cents: m.cents - other.cents}, nil
}

// Multiply scales the amount by a non-negative integer factor.
func (m Money) Multiply(factor int64) (Money, error) {
	if factor < 0 {
		return Money{}, fmt.Errorf("%w: factor %d", ErrNegativeAmount, factor)
	}
	return Money{cents: m.cents * factor}, nil
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.cents >= other.cents
}

func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// Min returns the smaller of the two amounts.
func (m Money) Min(other Money) Money {
	if other.cents < m.cents {
		return other
	}
	return m
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2) + " CNY"
}

// MarshalJSON renders the amount as its major-unit decimal value.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.Decimal().MarshalJSON()
}
