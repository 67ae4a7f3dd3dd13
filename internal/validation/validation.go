// Package validation provides the primitive checks used by the pain.001 schemas.
// Every function is total: bad input yields false, never a panic or an error.
package validation

import (
	"math/big"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	isoDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	ibanPattern        = regexp.MustCompile(`^[A-Z]{2}\d{2}( ?[0-9a-zA-Z]{4}){2,7}( ?[0-9a-zA-Z]{1,4})?$`)
	currencyPattern    = regexp.MustCompile(`^[A-Z]{3}$`)
	countryPattern     = regexp.MustCompile(`^[A-Z]{2}$`)
	uuidV4Pattern      = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-4[a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	leiPattern         = regexp.MustCompile(`^[A-Z0-9]{18}[0-9]{2}$`)
)

// IBAN length bounds once spaces are removed (ISO 13616).
const (
	minIBANLength = 15
	maxIBANLength = 34
)

// IsISODate reports whether value is a calendar date in YYYY-MM-DD form.
func IsISODate(value string) bool {
	return isoDatePattern.MatchString(value)
}

// IsISODateTime reports whether value is YYYY-MM-DDTHH:MM:SS with an optional
// fraction and an optional Z or ±HH:MM offset.
func IsISODateTime(value string) bool {
	return isoDateTimePattern.MatchString(value)
}

// IsIBAN checks the structural shape of an IBAN: two uppercase letters, two
// digits, then groups of four alphanumerics with an optional single space
// between groups and a shorter final group.
//
// The mod-97 check digits are not verified here, see IBANChecksumValid.
func IsIBAN(value string) bool {
	if !ibanPattern.MatchString(value) {
		return false
	}
	n := len(strings.ReplaceAll(value, " ", ""))
	return n >= minIBANLength && n <= maxIBANLength
}

// NormalizeIBAN strips spaces and upper-cases the IBAN.
func NormalizeIBAN(value string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
}

// IBANChecksumValid verifies the ISO 13616 mod-97 check digits. The value
// must already have the IBAN shape.
func IBANChecksumValid(value string) bool {
	if !IsIBAN(value) {
		return false
	}
	iban := NormalizeIBAN(value)
	rearranged := iban[4:] + iban[:4]

	var digits strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			digits.WriteString(big.NewInt(int64(r-'A') + 10).String())
		default:
			return false
		}
	}

	n, ok := new(big.Int).SetString(digits.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

// IsCurrencyCode reports whether value is a three-letter uppercase code.
func IsCurrencyCode(value string) bool {
	return currencyPattern.MatchString(value)
}

// IsCountryCode reports whether value is a two-letter uppercase code.
func IsCountryCode(value string) bool {
	return countryPattern.MatchString(value)
}

// IsBIC accepts the BIC8 and BIC11 lengths. No further structure is checked.
func IsBIC(value string) bool {
	return len(value) == 8 || len(value) == 11
}

// IsUUIDv4 reports whether value is a lower-case canonical version 4 UUID,
// the form ISO 20022 requires for UETR.
func IsUUIDv4(value string) bool {
	return uuidV4Pattern.MatchString(value)
}

// IsLEI reports whether value matches the ISO 17442 legal entity identifier pattern.
func IsLEI(value string) bool {
	return leiPattern.MatchString(value)
}

// IsXMLText reports whether value is valid UTF-8 made only of characters
// allowed in XML 1.0 character data.
func IsXMLText(value string) bool {
	if !utf8.ValidString(value) {
		return false
	}
	for _, r := range value {
		if !isXMLChar(r) {
			return false
		}
	}
	return true
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09, r == 0x0A, r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
