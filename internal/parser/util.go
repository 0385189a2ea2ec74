package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Month-name date as written by payment-app exports, e.g. "Nov 01, 2025" or
// "January 5 2024". The abbreviation may carry a trailing suffix.
const monthDayYear = `\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}`

var (
	// Transaction-start anchor: a month-name date optionally followed by a
	// time of day, possibly on the next line.
	anchorPattern = regexp.MustCompile(`(?i)` + monthDayYear + `\s*\n?\s*(?:\d{1,2}:\d{2}\s*(?:am|pm))?`)

	datePattern = regexp.MustCompile(`(?i)` + monthDayYear)

	// columnHeaderPattern is the repeated table header of PhonePe-style exports.
	columnHeaderPattern = regexp.MustCompile(`(?i)Date\s+Transaction\s+Details\s+Type\s+Amount`)

	// partialHeaderPattern catches a header the normalizer failed to strip.
	partialHeaderPattern = regexp.MustCompile(`(?i)Date\s+Transaction\s+Details`)
)

// parseAmount converts a string like "1,234.56" or "₹1,234" to a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00A0", "") // non-breaking space

	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// splitLines splits block text into lines without trimming them.
func splitLines(block string) []string {
	return strings.Split(block, "\n")
}
