// Package types provides common value types shared by records, reports and trends.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Gallons is a fuel volume. Stored as NUMERIC(12,3).
type Gallons = decimal.Decimal

const (
	MoneyPlaces   int32 = 2
	GallonsPlaces int32 = 3
	PercentPlaces int32 = 2
)

var hundred = decimal.NewFromInt(100)

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds to cents (banker's rounding is not used; half away from zero).
func RoundMoney(m Money) Money {
	return m.Round(MoneyPlaces)
}

// RoundGallons rounds to thousandths of a gallon.
func RoundGallons(g Gallons) Gallons {
	return g.Round(GallonsPlaces)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// PercentChange returns (current - previous) / |previous| * 100 rounded to two places.
// ok is false when previous is zero and the change is undefined.
func PercentChange(current, previous decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if previous.IsZero() {
		return decimal.Zero, false
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(PercentPlaces), true
}

// PercentOf returns part / whole * 100 rounded to two places, zero when whole is zero.
func PercentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(PercentPlaces)
}
