// Package schema validates the pain.001.001.09 document model.
//
// Every entry point walks the whole value and reports all violations at once
// as a *painerror.ValidationError. Field violations carry the dotted path of
// the offending element, rule violations carry every implicated path.
package schema

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"fjacquet/pain001/internal/painerror"
	"fjacquet/pain001/internal/validation"
)

// Validator holds the validation settings. The zero value is usable.
type Validator struct {
	ibanChecksum bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithIBANChecksum makes every IBAN field also pass the mod-97 check.
func WithIBANChecksum() Option {
	return func(v *Validator) {
		v.ibanChecksum = true
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// IBANChecksum reports whether mod-97 checking is enabled.
func (v *Validator) IBANChecksum() bool {
	return v != nil && v.ibanChecksum
}

// collector accumulates violations for one validation run.
type collector struct {
	v          *Validator
	violations []error
}

func (v *Validator) newCollector() *collector {
	return &collector{v: v}
}

func (c *collector) fieldf(path, value, format string, args ...any) {
	c.violations = append(c.violations, &painerror.FieldError{
		Path:   path,
		Value:  value,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (c *collector) rule(rule, reason string, paths ...string) {
	c.violations = append(c.violations, &painerror.RuleError{
		Rule:   rule,
		Paths:  paths,
		Reason: reason,
	})
}

func (c *collector) result(subject string) error {
	if len(c.violations) == 0 {
		return nil
	}
	return &painerror.ValidationError{Subject: subject, Violations: c.violations}
}

func (c *collector) required(path, value string, maxLen int) {
	if value == "" {
		c.fieldf(path, "", "is required")
		return
	}
	c.maxLength(path, value, maxLen)
}

func (c *collector) optional(path, value string, maxLen int) {
	if value == "" {
		return
	}
	c.maxLength(path, value, maxLen)
}

func (c *collector) maxLength(path, value string, maxLen int) {
	if !validation.IsXMLText(value) {
		c.fieldf(path, strings.ToValidUTF8(value, "?"), "contains invalid UTF-8 or characters not allowed in XML")
		return
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		c.fieldf(path, value, "must be at most %d characters, got %d", maxLen, n)
	}
}

func (c *collector) oneOf(path, value string, allowed []string) {
	if value == "" {
		return
	}
	if !slices.Contains(allowed, value) {
		c.fieldf(path, value, "must be one of %v", allowed)
	}
}

func (c *collector) iban(path, value string) {
	switch {
	case value == "":
		c.fieldf(path, "", "is required")
	case !validation.IsIBAN(value):
		c.fieldf(path, value, "is not a valid IBAN")
	case c.v.IBANChecksum() && !validation.IBANChecksumValid(value):
		c.fieldf(path, value, "has invalid IBAN check digits")
	}
}

func (c *collector) bic(path, value string) {
	if value != "" && !validation.IsBIC(value) {
		c.fieldf(path, value, "must be 8 or 11 characters")
	}
}

func (c *collector) currency(path, value string) {
	if value == "" {
		c.fieldf(path, "", "is required")
		return
	}
	if !validation.IsCurrencyCode(value) {
		c.fieldf(path, value, "is not a valid currency code")
	}
}

func (c *collector) country(path, value string) {
	if value != "" && !validation.IsCountryCode(value) {
		c.fieldf(path, value, "is not a valid country code")
	}
}

func (c *collector) date(path, value string) {
	if value != "" && !validation.IsISODate(value) {
		c.fieldf(path, value, "is not an ISO date (YYYY-MM-DD)")
	}
}

func (c *collector) dateTime(path, value string) {
	if value == "" {
		c.fieldf(path, "", "is required")
		return
	}
	if !validation.IsISODateTime(value) {
		c.fieldf(path, value, "is not an ISO datetime")
	}
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
