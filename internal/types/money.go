package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every Money value carries.
const MoneyScale = 2

// ErrInvalidMoney is returned when a string is not a decimal amount with at
// most two fractional digits.
var ErrInvalidMoney = errors.New("amount must be a decimal number with at most 2 fractional digits")

// Money is a currency amount with exactly two fractional digits. Arithmetic is
// performed on decimals, never on floats.
type Money struct {
	d decimal.Decimal
}

// NewMoney rounds d to two fractional digits.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.Round(MoneyScale)}
}

// ParseMoney parses s strictly. Values with more than two significant
// fractional digits are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidMoney
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidMoney
	}
	if !d.Equal(d.Round(MoneyScale)) {
		return Money{}, ErrInvalidMoney
	}
	return Money{d: d.Round(MoneyScale)}, nil
}

// MustParseMoney is like ParseMoney but panics on error. Intended for
// constants and tests.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(fmt.Sprintf("types: MustParseMoney(%q): %v", s, err))
	}
	return m
}

// Decimal returns the underlying decimal.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String returns the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(MoneyScale)
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{d: m.d.Add(other.d)}
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{d: m.d.Sub(other.d)}
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// Equal reports whether m and other represent the same amount.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.d.GreaterThan(other.d)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// MarshalJSON renders the amount as a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "null" {
		return nil
	}
	parsed, err := ParseMoney(value)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements the driver.Valuer interface. Amounts are persisted as
// two-decimal strings.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements the sql.Scanner interface.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("cannot scan %T into Money: %w", value, err)
	}
	*m = NewMoney(d)
	return nil
}
