// Package core provides the ledger engine: money, transactions, the
// withdrawal policy and statement building.
//
// This file contains the Money value type and the parsing of monetary
// amounts typed by the user.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Exponent bounds accepted by FromDecimal. Anything above maxExponent cannot
// fit in int64 cents; both bounds keep rescaling cheap.
const (
	maxExponent = 18
	minExponent = -1000
)

// Money is an exact amount with two fractional digits, stored as cents.
// Values are immutable; every operation returns a new Money.
type Money struct {
	Cents int64
}

// Zero is the zero amount.
var Zero = Money{}

// ParseMoney converts user input to Money with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place. Only plain decimal
// notation is accepted: an optional sign, digits and one separator. Sign is
// preserved: the positivity rule belongs to the Ledger, not to the parser.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234 cents
//	ParseMoney("12,34")  -> 1234 cents
//	ParseMoney("12.345") -> 1235 cents
//	ParseMoney("12.344") -> 1234 cents
//	ParseMoney("-0.005") -> -1 cent
func ParseMoney(raw string) (Money, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if !isPlainDecimal(s) {
		return Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	return FromDecimal(d)
}

// MustParseMoney is like ParseMoney but panics on invalid input.
// Intended for constants and tests.
func MustParseMoney(raw string) Money {
	m, err := ParseMoney(raw)
	if err != nil {
		panic("core: invalid money literal " + raw)
	}
	return m
}

// isPlainDecimal reports whether s is [+-]digits[.digits] with at least one
// digit.
func isPlainDecimal(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	digits, dot := 0, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// FromDecimal rounds d half away from zero to cents.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsZero() {
		return Zero, nil
	}
	if exp := d.Exponent(); exp > maxExponent || exp < minExponent {
		return Zero, ErrInvalidAmount
	}
	scaled := d.Round(2).Shift(2)
	if scaled.GreaterThan(maxCents) || scaled.LessThan(minCents) {
		return Zero, ErrInvalidAmount
	}
	return Money{Cents: scaled.IntPart()}, nil
}

// Cents builds Money from a number of minor units.
func Cents(c int64) Money {
	return Money{Cents: c}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// CheckedAdd is Add that reports false instead of wrapping around.
func (m Money) CheckedAdd(o Money) (Money, bool) {
	sum := m.Cents + o.Cents
	if (o.Cents > 0 && sum < m.Cents) || (o.Cents < 0 && sum > m.Cents) {
		return Zero, false
	}
	return Money{Cents: sum}, true
}

// Cmp returns -1, 0 or +1 depending on whether m is less than, equal to or
// greater than o.
func (m Money) Cmp(o Money) int {
	switch {
	case m.Cents < o.Cents:
		return -1
	case m.Cents > o.Cents:
		return 1
	default:
		return 0
	}
}

func (m Money) LessThan(o Money) bool           { return m.Cents < o.Cents }
func (m Money) LessThanOrEqual(o Money) bool    { return m.Cents <= o.Cents }
func (m Money) GreaterThan(o Money) bool        { return m.Cents > o.Cents }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.Cents >= o.Cents }

func (m Money) IsPositive() bool { return m.Cents > 0 }
func (m Money) IsZero() bool     { return m.Cents == 0 }

// Decimal returns the amount as a decimal.Decimal with exponent -2.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String returns the exact amount with exactly two decimals ("10.10").
// This is the form used for persistence and export.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format returns the amount prefixed with a currency marker ("R$ 10.10").
// Used only by presentation.
func (m Money) Format(currency string) string {
	if currency == "" {
		return m.String()
	}
	return currency + " " + m.String()
}
