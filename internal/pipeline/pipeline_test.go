package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-insights/internal/config"
	"github.com/insightdelivered/statement-insights/internal/extractor"
	"github.com/insightdelivered/statement-insights/internal/logger"
	"github.com/insightdelivered/statement-insights/internal/metrics"
	"github.com/insightdelivered/statement-insights/internal/models"
)

func TestParse_Sample(t *testing.T) {
	p := New(Options{})

	res, err := p.Parse(context.Background(), SampleText)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 4, res.Blocks)
	assert.Equal(t, 0, res.Discarded)
	assert.Equal(t, "Parsed 4 transactions", res.Status)

	require.Len(t, res.Transactions, 4)
	var cats, descs []string
	for _, tx := range res.Transactions {
		cats = append(cats, tx.Category)
		descs = append(descs, tx.DescriptionText())
	}
	assert.Equal(t, []string{"Bills", "Other", "Other", "Food"}, cats)
	assert.Equal(t, []string{
		"Paid to GTPL HATHWAY LIMITED",
		"Received from Dad",
		"Paid to Gouri Aunty",
		"Paid to HUNGRY BIRDS",
	}, descs)
	assert.Equal(t, "Oct 09, 2025", res.Transactions[3].DateText())

	assert.True(t, res.Summary.Credits.Equal(decimal.NewFromInt(1500)))
	assert.True(t, res.Summary.Debits.Equal(decimal.NewFromInt(9601)))
	require.Len(t, res.TopCategories, 3)
	assert.Equal(t, "Other", res.TopCategories[0].Category)
	assert.Equal(t, "Largest spending category: Other (₹8,500.00, 89% of total debits).", res.Insight)
}

func TestParse_TwoBlocksSameDay(t *testing.T) {
	raw := "Nov 01, 2025 06:05 pm\nDEBIT ₹1,500 Paid to GTPL HATHWAY LIMITED\n" +
		"Nov 01, 2025 06:04 pm\nCREDIT ₹1,500 Received from Dad\n"

	res, err := New(Options{}).Parse(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Blocks)
	require.Len(t, res.Transactions, 2)

	tests := []struct {
		date, desc, category string
		direction            models.Direction
	}{
		{"Nov 01, 2025", "Paid to GTPL HATHWAY LIMITED", "Bills", models.DirectionDebit},
		{"Nov 01, 2025", "Received from Dad", models.CategoryOther, models.DirectionCredit},
	}
	for i, want := range tests {
		tx := res.Transactions[i]
		assert.Equal(t, want.date, tx.DateText())
		assert.Equal(t, want.desc, tx.DescriptionText())
		assert.Equal(t, want.category, tx.Category)
		assert.Equal(t, want.direction, tx.Direction)
		assert.True(t, tx.AmountValue().Equal(decimal.NewFromInt(1500)))
	}

	assert.True(t, res.Summary.Credits.Equal(decimal.NewFromInt(1500)))
	assert.True(t, res.Summary.Debits.Equal(decimal.NewFromInt(1500)))
	assert.True(t, res.Summary.Net().IsZero())
	assert.Equal(t, "Largest spending category: Bills (₹1,500.00, 100% of total debits).", res.Insight)
}

func TestParse_DiscardsDateOnlyBlock(t *testing.T) {
	p := New(Options{})

	res, err := p.Parse(context.Background(), SampleText+"Nov 30, 2025\nClosing balance\n")
	require.NoError(t, err)

	assert.Equal(t, 5, res.Blocks)
	assert.Equal(t, 1, res.Discarded)
	assert.Len(t, res.Transactions, 4)
	for _, tx := range res.Transactions {
		assert.NotEqual(t, "Nov 30, 2025", tx.DateText())
	}
	assert.True(t, res.Summary.Debits.Equal(decimal.NewFromInt(9601)))
}

func TestParse_AmountRange(t *testing.T) {
	raw := "Nov 01, 2025\nDEBIT ₹1,000,000,000 Paid to Corrupt Row\n" +
		"Nov 02, 2025\nDEBIT ₹0 Paid to Nobody\n" +
		"Nov 03, 2025\nDEBIT ₹999,999,999 Paid to Big Spender\n"

	res, err := New(Options{}).Parse(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Paid to Big Spender", res.Transactions[0].DescriptionText())
	assert.Equal(t, 2, res.Discarded)

	lo, hi := decimal.NewFromInt(100), decimal.NewFromInt(500)
	res, err = New(Options{MinAmount: &lo, MaxAmount: &hi}).Parse(context.Background(),
		"Nov 01, 2025\nDEBIT ₹100 Paid to A\nNov 02, 2025\nDEBIT ₹250 Paid to B\nNov 03, 2025\nDEBIT ₹500 Paid to C")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Paid to B", res.Transactions[0].DescriptionText())
}

func TestParse_NoAnchors(t *testing.T) {
	res, err := New(Options{}).Parse(context.Background(), "Account summary\nNothing to see here")
	require.NoError(t, err)

	assert.Empty(t, res.Transactions)
	assert.Equal(t, 0, res.Blocks)
	assert.Equal(t, "Parsed 0 transactions", res.Status)
	assert.Equal(t, "No transactions detected.", res.Insight)
	assert.True(t, res.Summary.Credits.IsZero())
	assert.True(t, res.Summary.Debits.IsZero())
}

func TestParse_PartitionInvariant(t *testing.T) {
	raw := SampleText + "Oct 01, 2025\n₹333 Paid to Mystery\n"

	res, err := New(Options{}).Parse(context.Background(), raw)
	require.NoError(t, err)

	total := decimal.Zero
	for _, tx := range res.Transactions {
		total = total.Add(tx.AmountValue())
	}
	assert.True(t, res.Summary.Credits.Add(res.Summary.Debits).Equal(total))
	assert.True(t, res.Summary.Debits.Equal(decimal.NewFromInt(9934)))
}

func TestParse_WorkersPreserveOrder(t *testing.T) {
	raw := strings.Repeat(SampleText, 25)

	seq, err := New(Options{Workers: 1}).Parse(context.Background(), raw)
	require.NoError(t, err)
	par, err := New(Options{Workers: 8}).Parse(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, par.Transactions, 100)
	assert.Equal(t, seq.Transactions, par.Transactions)
	assert.True(t, seq.Summary.Debits.Equal(par.Summary.Debits))
	assert.Equal(t, seq.Insight, par.Insight)
}

func TestParse_StagePanicFailsRun(t *testing.T) {
	p := New(Options{Workers: 2})
	p.extract = func(block string) models.Transaction {
		panic("corrupt block")
	}

	res, err := p.Parse(context.Background(), SampleText)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrParseFailed)
	assert.Contains(t, err.Error(), "corrupt block")
}

func TestParse_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(Options{}).Parse(ctx, SampleText)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrParseFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseDocument(t *testing.T) {
	p := New(Options{})

	res, err := p.ParseDocument(context.Background(), "sample.txt", []byte(SampleText))
	require.NoError(t, err)
	assert.Len(t, res.Transactions, 4)

	_, err = p.ParseDocument(context.Background(), "statement.bin", []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, ErrParseFailed)
	assert.True(t, errors.Is(err, extractor.ErrUnsupportedFormat))
}

func TestParseDocument_LogsDecodeFailure(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf))

	_, err := New(Options{}).ParseDocument(ctx, "statement.bin", []byte{0xff, 0xfe, 0xfd})
	require.ErrorIs(t, err, ErrParseFailed)

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"file":"statement.bin"`)
	assert.Contains(t, buf.String(), "Failed to read statement text")
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Parse.MaxAmount = 5000
	cfg.Parse.Workers = 4
	cfg.Categories = []config.CategoryRule{
		{Name: "Family", Keywords: []string{"dad", "aunty"}},
	}

	p := FromConfig(cfg, nil)
	assert.Equal(t, []string{"Family"}, p.Categories())

	res, err := p.Parse(context.Background(), SampleText)
	require.NoError(t, err)

	// the 7000 payment exceeds the configured maximum
	require.Len(t, res.Transactions, 3)
	assert.Equal(t, 1, res.Discarded)
	assert.Equal(t, "Other", res.Transactions[0].Category)
	assert.Equal(t, "Family", res.Transactions[1].Category)
	assert.Equal(t, "Other", res.Transactions[2].Category)
}

func TestParse_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := New(Options{Metrics: metrics.NewMetrics(reg)})

	_, err := p.Parse(context.Background(), SampleText+"Nov 30, 2025\n")
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 5.0, values["finsight_blocks_found_total"])
	assert.Equal(t, 4.0, values["finsight_transactions_kept_total"])
	assert.Equal(t, 1.0, values["finsight_transactions_discarded_total"])
	assert.Equal(t, 1.0, values["finsight_parse_runs_total"])
	assert.Equal(t, 4.0, values["finsight_transactions_by_category_total"])
}
