package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-insights/internal/models"
)

// AnchorMatcher locates transaction-start anchors in canonical text.
type AnchorMatcher interface {
	// FindAnchors returns the start offset of every non-overlapping anchor,
	// in the order found.
	FindAnchors(text string) []int
}

// FieldMatcher pulls a single field out of a transaction block.
type FieldMatcher[T any] interface {
	Match(block string) models.Field[T]
}

// DateMatcher recognises month-name dates. It serves both as the segmenter's
// anchor matcher and as the date field matcher.
type DateMatcher struct {
	anchor *regexp.Regexp
	date   *regexp.Regexp
}

// NewDateMatcher returns the default month-name date matcher.
func NewDateMatcher() *DateMatcher {
	return &DateMatcher{anchor: anchorPattern, date: datePattern}
}

func (m *DateMatcher) FindAnchors(text string) []int {
	locs := m.anchor.FindAllStringIndex(text, -1)
	starts := make([]int, 0, len(locs))
	for _, loc := range locs {
		starts = append(starts, loc[0])
	}
	return starts
}

// Match returns the first date literal in the block, without any time.
func (m *DateMatcher) Match(block string) models.Field[string] {
	if d := m.date.FindString(block); d != "" {
		return models.Found(d)
	}
	return models.Absent[string]()
}

// AmountMatcher finds the first currency-marked numeral in a block.
type AmountMatcher struct {
	pattern *regexp.Regexp
}

// NewAmountMatcher builds an amount matcher for the given currency symbols.
// With no symbols it falls back to the rupee sign.
func NewAmountMatcher(symbols ...string) *AmountMatcher {
	if len(symbols) == 0 {
		symbols = []string{"₹"}
	}
	quoted := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.TrimSpace(s); s != "" {
			quoted = append(quoted, regexp.QuoteMeta(s))
		}
	}
	if len(quoted) == 0 {
		quoted = []string{"₹"}
	}
	return &AmountMatcher{
		pattern: regexp.MustCompile(`(?:` + strings.Join(quoted, "|") + `)\s*([\d,]*\d(?:\.\d+)?)`),
	}
}

func (m *AmountMatcher) Match(block string) models.Field[decimal.Decimal] {
	sub := m.pattern.FindStringSubmatch(block)
	if sub == nil {
		return models.Absent[decimal.Decimal]()
	}
	amt, err := parseAmount(sub[1])
	if err != nil || amt.IsNegative() {
		return models.Absent[decimal.Decimal]()
	}
	return models.Found(amt)
}

// DirectionMatcher classifies a block by its explicit CREDIT/DEBIT marker.
// CREDIT is checked first, so a block carrying both resolves to credit.
type DirectionMatcher struct{}

func (DirectionMatcher) Match(block string) models.Field[models.Direction] {
	upper := strings.ToUpper(block)
	switch {
	case strings.Contains(upper, "CREDIT"):
		return models.Found(models.DirectionCredit)
	case strings.Contains(upper, "DEBIT"):
		return models.Found(models.DirectionDebit)
	default:
		return models.Absent[models.Direction]()
	}
}

// DefaultDescriptionLabels are the phrases that introduce a counterparty.
var DefaultDescriptionLabels = []string{
	"Paid to",
	"Received from",
	"Payment to",
	"Transfer to",
	"Transfer from",
}

// DescriptionMatcher takes the first labelled phrase up to end of line.
// Without a label it falls back to a fixed line of the block.
type DescriptionMatcher struct {
	labelled     *regexp.Regexp
	fallbackLine int
}

// NewDescriptionMatcher builds a description matcher from the given labels.
// A negative fallbackLine disables the positional fallback.
func NewDescriptionMatcher(labels []string, fallbackLine int) *DescriptionMatcher {
	if len(labels) == 0 {
		labels = DefaultDescriptionLabels
	}
	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		quoted = append(quoted, regexp.QuoteMeta(l))
	}
	return &DescriptionMatcher{
		labelled:     regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)[^\n]+`),
		fallbackLine: fallbackLine,
	}
}

func (m *DescriptionMatcher) Match(block string) models.Field[string] {
	if d := strings.TrimSpace(m.labelled.FindString(block)); d != "" {
		return models.Found(d)
	}
	if m.fallbackLine < 0 {
		return models.Absent[string]()
	}
	lines := splitLines(block)
	if m.fallbackLine < len(lines) {
		if line := strings.TrimSpace(lines[m.fallbackLine]); line != "" {
			return models.Found(line)
		}
	}
	return models.Absent[string]()
}
