package parser

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-insights/internal/models"
)

// trailingBoilerplatePattern marks an inline footer and everything after it.
var trailingBoilerplatePattern = regexp.MustCompile(`(?is)This is (?:a system|an automatically) generated statement.*$`)

// Extractor turns one transaction block into a Transaction. Each field is
// matched independently against the same block text.
type Extractor struct {
	date        FieldMatcher[string]
	amount      FieldMatcher[decimal.Decimal]
	direction   FieldMatcher[models.Direction]
	description FieldMatcher[string]
}

// Extract never fails: fields that do not match are left absent and an
// unmarked block gets DirectionUnknown.
func (e *Extractor) Extract(block string) models.Transaction {
	if loc := trailingBoilerplatePattern.FindStringIndex(block); loc != nil {
		block = block[:loc[0]]
	}

	return models.Transaction{
		Date:        e.date.Match(block),
		Description: e.description.Match(block),
		Amount:      e.amount.Match(block),
		Direction:   e.direction.Match(block).Or(models.DirectionUnknown),
	}
}
