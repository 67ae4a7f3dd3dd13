// Package dateutils formats and parses the dates carried by pain.001 messages.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts used by ISO 20022 and accepted on input.
const (
	DateLayoutISO      = "2006-01-02"
	DateTimeLayoutISO  = "2006-01-02T15:04:05Z07:00"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// InputFormats are tried in order by ParseDate.
var InputFormats = []string{
	DateLayoutISO,
	DateLayoutEuropean,
	DateLayoutFull,
	"02/01/2006",
	"2006/01/02",
	"2.1.2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// ToISODateTime formats t as YYYY-MM-DDTHH:MM:SS with its zone offset, or Z
// for UTC. Fractions of a second are dropped.
func ToISODateTime(t time.Time) string {
	return t.Truncate(time.Second).Format(DateTimeLayoutISO)
}

// ParseDate parses a calendar date in any of InputFormats.
func ParseDate(dateStr string) (time.Time, error) {
	clean := CleanDateString(dateStr)
	for _, format := range InputFormats {
		if t, err := time.Parse(format, clean); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseDateTime parses an ISO datetime with or without a zone. A missing
// zone is read as UTC.
func ParseDateTime(value string) (time.Time, error) {
	clean := CleanDateString(value)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime: %s", value)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// IsWeekend checks if a date falls on a weekend (Saturday or Sunday)
func IsWeekend(date time.Time) bool {
	day := date.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// IsBusinessDay checks if a date is a business day (not a weekend).
// Does not account for holidays
func IsBusinessDay(date time.Time) bool {
	return !IsWeekend(date)
}

// RollToBusinessDay returns date unchanged on a business day and the
// following Monday on a weekend.
func RollToBusinessDay(date time.Time) time.Time {
	switch date.Weekday() {
	case time.Saturday:
		return date.AddDate(0, 0, 2)
	case time.Sunday:
		return date.AddDate(0, 0, 1)
	default:
		return date
	}
}
