package parser

import (
	"regexp"
	"strings"
)

var (
	pageFooterPattern = regexp.MustCompile(`(?i)Page \d+ of \d+`)
	blankRunPattern   = regexp.MustCompile(`\n{2,}`)

	// Footers and disclaimers repeated on every page of a PhonePe export.
	// Each is removed up to and including its line break.
	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)This is a system generated statement[^\n]*(?:\n|$)`),
		regexp.MustCompile(`(?i)This is an automatically generated statement[^\n]*(?:\n|$)`),
		regexp.MustCompile(`(?i)Customer\(s\)[^\n]*(?:\n|$)`),
		regexp.MustCompile(`(?i)Disclaimer\s*:\s*Do not fall prey[^\n]*(?:\n|$)`),
	}
)

// Normalize cleans raw statement text into the canonical stream the
// segmenter scans. It never fails; the result may be empty.
//
// Removal passes repeat until nothing changes, since removing one pattern
// can join the halves of another. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00A0", " ")

	for {
		next := strip(s)
		if next == s {
			return s
		}
		s = next
	}
}

// strip runs one round of footer, header, blank-run and boilerplate
// removal. Every change shortens the text.
func strip(s string) string {
	s = pageFooterPattern.ReplaceAllString(s, "")
	s = columnHeaderPattern.ReplaceAllString(s, "")
	s = blankRunPattern.ReplaceAllString(s, "\n")

	for _, re := range boilerplatePatterns {
		s = re.ReplaceAllString(s, "")
	}
	return s
}
