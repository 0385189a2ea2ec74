// Package parser recovers transaction records from unstructured statement
// text using lexical heuristics only.
package parser

import (
	"github.com/insightdelivered/statement-insights/internal/models"
)

// DefaultFallbackLine is the zero-based block line used as a description
// when no labelled phrase is present.
const DefaultFallbackLine = 2

// Options tunes the matchers used by a Parser.
type Options struct {
	// CurrencySymbols mark amounts. Defaults to the rupee sign.
	CurrencySymbols []string
	// DescriptionLabels introduce a counterparty. Defaults to DefaultDescriptionLabels.
	DescriptionLabels []string
	// FallbackLine is the positional description fallback; nil means DefaultFallbackLine.
	FallbackLine *int
}

// Parser bundles the normalizer, segmenter and field extractor.
type Parser struct {
	segmenter *Segmenter
	extractor *Extractor
}

// New returns a Parser configured by opts.
func New(opts Options) *Parser {
	fallback := DefaultFallbackLine
	if opts.FallbackLine != nil {
		fallback = *opts.FallbackLine
	}
	dates := NewDateMatcher()
	return &Parser{
		segmenter: NewSegmenter(dates),
		extractor: &Extractor{
			date:        dates,
			amount:      NewAmountMatcher(opts.CurrencySymbols...),
			direction:   DirectionMatcher{},
			description: NewDescriptionMatcher(opts.DescriptionLabels, fallback),
		},
	}
}

// Blocks normalizes raw text and splits it into transaction blocks.
func (p *Parser) Blocks(raw string) []string {
	return p.segmenter.Segment(Normalize(raw))
}

// Extract parses a single block.
func (p *Parser) Extract(block string) models.Transaction {
	return p.extractor.Extract(block)
}

// Parse runs normalization, segmentation and extraction sequentially,
// returning one record per block in document order. No filtering is applied.
func (p *Parser) Parse(raw string) []models.Transaction {
	blocks := p.Blocks(raw)
	txns := make([]models.Transaction, 0, len(blocks))
	for _, b := range blocks {
		txns = append(txns, p.extractor.Extract(b))
	}
	return txns
}
