package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the upper bound of ActiveOrHistoricCurrencyAndAmount.
var MaxAmount = decimal.RequireFromString("999999999999.99")

const (
	// MinFractionDigits is the number of fraction digits always rendered.
	MinFractionDigits = 2
	// MaxFractionDigits is the largest precision the schema accepts.
	MaxFractionDigits = 5
)

// Amount is a monetary value with its currency, rendered as <X Ccy="CHF">100.20</X>.
type Amount struct {
	Value decimal.Decimal `json:"value" yaml:"value"`
	Ccy   string          `json:"currency" yaml:"currency"`
}

// NewAmount creates an Amount; the currency is upper-cased.
func NewAmount(value decimal.Decimal, currency string) Amount {
	return Amount{
		Value: value,
		Ccy:   strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// NewAmountFromString parses value as a decimal amount.
func NewAmountFromString(value, currency string) (Amount, error) {
	dec, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount string '%s': %w", value, err)
	}
	return NewAmount(dec, currency), nil
}

// IsZero returns true if the amount is zero
func (a Amount) IsZero() bool {
	return a.Value.IsZero()
}

// FractionDigits returns the number of significant fraction digits.
func (a Amount) FractionDigits() int32 {
	return FractionDigits(a.Value)
}

// Text returns the XML text value of the amount.
func (a Amount) Text() string {
	return FormatDecimal(a.Value)
}

// String returns a string representation of the amount
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Text(), a.Ccy)
}

// Equal returns true if both value and currency are equal.
func (a Amount) Equal(other Amount) bool {
	return a.Value.Equal(other.Value) && a.Ccy == other.Ccy
}

// FractionDigits returns the number of fraction digits of d once trailing
// zeros are dropped.
func FractionDigits(d decimal.Decimal) int32 {
	s := d.String()
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return int32(len(s) - i - 1)
}

// FormatDecimal renders d with at least two fraction digits and without
// trailing zeros beyond that: 100.2 -> "100.20", 1.23456 -> "1.23456".
func FormatDecimal(d decimal.Decimal) string {
	places := FractionDigits(d)
	if places < MinFractionDigits {
		places = MinFractionDigits
	}
	return d.StringFixed(places)
}
