// Package pipeline drives a statement through normalization, segmentation,
// extraction, filtering, categorization and aggregation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-insights/internal/categorizer"
	"github.com/insightdelivered/statement-insights/internal/config"
	"github.com/insightdelivered/statement-insights/internal/extractor"
	"github.com/insightdelivered/statement-insights/internal/logger"
	"github.com/insightdelivered/statement-insights/internal/metrics"
	"github.com/insightdelivered/statement-insights/internal/models"
	"github.com/insightdelivered/statement-insights/internal/parser"
	"github.com/insightdelivered/statement-insights/internal/summary"
)

// ErrParseFailed wraps every failure of a parse run.
var ErrParseFailed = errors.New("error parsing file")

// FailureStatus is the user-visible status of a failed run.
const FailureStatus = "Error parsing file"

// Discard reasons reported to metrics.
const (
	reasonNoAmount   = "no_amount"
	reasonBelowRange = "below_range"
	reasonAboveRange = "above_range"
)

var (
	// DefaultMinAmount and DefaultMaxAmount bound plausible amounts, exclusive.
	DefaultMinAmount = decimal.Zero
	DefaultMaxAmount = decimal.NewFromInt(1_000_000_000)
)

// Options configures a Pipeline. Zero values select the defaults.
type Options struct {
	Parser     parser.Options
	Categories []categorizer.Category
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	// Workers is the number of blocks extracted concurrently.
	Workers int
	Metrics *metrics.Metrics
}

// Pipeline is safe for concurrent use across documents.
type Pipeline struct {
	parser      *parser.Parser
	categorizer *categorizer.Categorizer
	min, max    decimal.Decimal
	workers     int
	metrics     *metrics.Metrics

	extract func(block string) models.Transaction
}

// Result is the outcome of one successful parse run.
type Result struct {
	RunID         string
	Transactions  []models.Transaction
	Summary       models.Summary
	TopCategories []models.CategoryTotal
	Insight       string
	Status        string
	// Blocks is the number of segments found; Discarded of those were
	// dropped by the amount filter.
	Blocks    int
	Discarded int
}

// New returns a Pipeline configured by opts.
func New(opts Options) *Pipeline {
	table := opts.Categories
	if len(table) == 0 {
		table = categorizer.DefaultTable()
	}
	p := &Pipeline{
		parser:      parser.New(opts.Parser),
		categorizer: categorizer.New(table),
		min:         DefaultMinAmount,
		max:         DefaultMaxAmount,
		workers:     opts.Workers,
		metrics:     opts.Metrics,
	}
	if opts.MinAmount != nil {
		p.min = *opts.MinAmount
	}
	if opts.MaxAmount != nil {
		p.max = *opts.MaxAmount
	}
	if p.workers < 1 {
		p.workers = 1
	}
	p.extract = p.parser.Extract
	return p
}

// FromConfig builds a Pipeline from loaded configuration.
func FromConfig(cfg *config.Config, m *metrics.Metrics) *Pipeline {
	minAmount := decimal.NewFromFloat(cfg.Parse.MinAmount)
	maxAmount := decimal.NewFromFloat(cfg.Parse.MaxAmount)
	return New(Options{
		Parser: parser.Options{
			CurrencySymbols:   cfg.Parse.CurrencySymbols,
			DescriptionLabels: cfg.Parse.DescriptionLabels,
		},
		Categories: cfg.CategoryTable(),
		MinAmount:  &minAmount,
		MaxAmount:  &maxAmount,
		Workers:    cfg.Parse.Workers,
		Metrics:    m,
	})
}

// Categories returns the category names in precedence order.
func (p *Pipeline) Categories() []string {
	return p.categorizer.Categories()
}

// ParseDocument decodes a named document and parses its text.
func (p *Pipeline) ParseDocument(ctx context.Context, name string, data []byte) (*Result, error) {
	text, err := extractor.Decode(name, data)
	if err != nil {
		p.metrics.RecordParseRun("error", 0)
		log := logger.FromContext(ctx)
		log.Error().Err(err).Str("file", name).Msg("Failed to read statement text")
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return p.Parse(ctx, text)
}

// Parse runs the full pipeline over raw statement text. Stages never fail
// on malformed input; an error means the run as a whole failed and no
// partial result is returned.
func (p *Pipeline) Parse(ctx context.Context, raw string) (res *Result, err error) {
	runID := uuid.New().String()
	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{"run_id": runID})
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrParseFailed, r)
		}
		status := "success"
		if err != nil {
			status = "error"
			log.Error().Err(err).Msg("Parse run failed")
		}
		p.metrics.RecordParseRun(status, time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	blocks := p.parser.Blocks(raw)
	p.metrics.RecordBlocks(len(blocks))
	log.Debug().Int("blocks", len(blocks)).Int("chars", len(raw)).Msg("Segmented statement")

	extracted, err := p.extractAll(ctx, blocks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	kept, discarded := p.filter(extracted)
	txns := p.categorizer.Apply(kept)
	for _, t := range txns {
		p.metrics.RecordCategory(t.CategoryText())
	}
	p.metrics.RecordKept(len(txns))

	s := summary.Summarize(txns)
	res = &Result{
		RunID:         runID,
		Transactions:  txns,
		Summary:       s,
		TopCategories: summary.Top(s, summary.TopN),
		Insight:       summary.Insight(s),
		Status:        fmt.Sprintf("Parsed %d transactions", len(txns)),
		Blocks:        len(blocks),
		Discarded:     discarded,
	}

	log.Info().
		Int("blocks", res.Blocks).
		Int("transactions", len(txns)).
		Int("discarded", discarded).
		Str("credits", s.Credits.String()).
		Str("debits", s.Debits.String()).
		Dur("elapsed", time.Since(start)).
		Msg("Parsed statement")
	return res, nil
}

// extractAll parses blocks concurrently and returns records in block order.
func (p *Pipeline) extractAll(ctx context.Context, blocks []string) ([]models.Transaction, error) {
	txns := make([]models.Transaction, len(blocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, block := range blocks {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("block %d: %v", i, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			txns[i] = p.extract(block)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return txns, nil
}

// filter keeps records whose amount is present and strictly inside the
// plausible range.
func (p *Pipeline) filter(txns []models.Transaction) ([]models.Transaction, int) {
	kept := make([]models.Transaction, 0, len(txns))
	counts := make(map[string]int)
	for _, t := range txns {
		amt := t.Amount.Value
		switch {
		case !t.Amount.Present:
			counts[reasonNoAmount]++
		case !amt.GreaterThan(p.min):
			counts[reasonBelowRange]++
		case !amt.LessThan(p.max):
			counts[reasonAboveRange]++
		default:
			kept = append(kept, t)
		}
	}
	discarded := 0
	for reason, n := range counts {
		p.metrics.RecordDiscarded(reason, n)
		discarded += n
	}
	return kept, discarded
}
