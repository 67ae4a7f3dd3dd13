// Package currencyutils parses the amount notations found in payment batch
// files into decimal values.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for a blank amount.
var ErrEmptyAmount = errors.New("amount is empty")

var (
	currencyCode   = regexp.MustCompile(`^[A-Z]{3}\s*|\s*[A-Z]{3}$`)
	currencySymbol = regexp.MustCompile(`[€$£¥₣₤₹₺₽₩฿₫₲₴₸₼₪]`)
	whitespace     = regexp.MustCompile(`\s+`)
	thousandsComma = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)
)

// ParseAmount parses an amount written with any of the usual separators:
// "1234.56", "1'234.56", "1,234.56", "1.234,56", "1 234,56", "CHF 1234.56".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and thousands separators and
// turns a decimal comma into a point.
func StandardizeAmount(amountStr string) string {
	s := strings.TrimSpace(amountStr)
	s = currencyCode.ReplaceAllString(s, "")
	s = currencySymbol.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")

	hasComma := strings.Contains(s, ",")
	hasPoint := strings.Contains(s, ".")
	switch {
	case hasComma && hasPoint:
		if strings.LastIndex(s, ".") < strings.LastIndex(s, ",") {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if thousandsComma.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}
	return s
}
