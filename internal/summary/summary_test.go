package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-insights/internal/models"
)

func txn(amount int64, dir models.Direction, category string) models.Transaction {
	return models.Transaction{
		Amount:    models.Found(decimal.NewFromInt(amount)),
		Direction: dir,
		Category:  category,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSummarize_TwoBlockScenario(t *testing.T) {
	s := Summarize([]models.Transaction{
		txn(1500, models.DirectionDebit, "Bills"),
		txn(1500, models.DirectionCredit, models.CategoryOther),
	})

	assert.True(t, s.Credits.Equal(dec(1500)))
	assert.True(t, s.Debits.Equal(dec(1500)))
	assert.True(t, s.Net().IsZero())
	assert.Equal(t, []string{"Bills", models.CategoryOther}, categoryNames(s.Categories))
}

func TestSummarize_UnknownCountsAsDebit(t *testing.T) {
	s := Summarize([]models.Transaction{
		txn(100, models.DirectionUnknown, "Food"),
		txn(50, "", "Food"),
		txn(10, models.DirectionCredit, "Salary"),
	})

	assert.True(t, s.Debits.Equal(dec(150)))
	assert.True(t, s.Credits.Equal(dec(10)))
	assert.True(t, s.CatMap()["Food"].Equal(dec(150)))
}

func TestSummarize_CategoriesMixDirections(t *testing.T) {
	s := Summarize([]models.Transaction{
		txn(5000, models.DirectionCredit, "Salary"),
		txn(200, models.DirectionDebit, "Salary"),
	})

	assert.True(t, s.CatMap()["Salary"].Equal(dec(5200)))
}

func TestSummarize_PartitionInvariant(t *testing.T) {
	sets := [][]models.Transaction{
		nil,
		{txn(1, models.DirectionCredit, "A")},
		{txn(7, models.DirectionDebit, "A"), txn(3, models.DirectionUnknown, "B"), txn(11, models.DirectionCredit, "A")},
		{txn(999999999, models.DirectionDebit, "X"), txn(1, models.DirectionCredit, "Y"), txn(0, models.DirectionCredit, "Y")},
	}

	for _, set := range sets {
		s := Summarize(set)
		total := decimal.Zero
		for _, tx := range set {
			total = total.Add(tx.AmountValue())
		}
		assert.True(t, s.Credits.Add(s.Debits).Equal(total))
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.True(t, s.Credits.IsZero())
	assert.True(t, s.Debits.IsZero())
	assert.Empty(t, s.Categories)
	assert.Equal(t, "No transactions detected.", Insight(s))
}

func TestTop_StableAndLimited(t *testing.T) {
	s := Summarize([]models.Transaction{
		txn(10, models.DirectionDebit, "A"),
		txn(30, models.DirectionDebit, "B"),
		txn(10, models.DirectionDebit, "C"),
		txn(30, models.DirectionDebit, "D"),
		txn(5, models.DirectionDebit, "E"),
		txn(1, models.DirectionDebit, "F"),
		txn(2, models.DirectionDebit, "G"),
		txn(10, models.DirectionDebit, "H"),
	})

	top := Top(s, TopN)

	assert.Equal(t, []string{"B", "D", "A", "C", "H", "E"}, categoryNames(top))
	assert.Len(t, Rank(s), 8)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "H"}, categoryNames(s.Categories), "ranking must not reorder the summary")
}

func TestInsight(t *testing.T) {
	s := Summarize([]models.Transaction{
		txn(1500, models.DirectionDebit, "Bills"),
		txn(1500, models.DirectionCredit, models.CategoryOther),
	})

	got := Insight(s)

	assert.Contains(t, got, "Largest spending category: Bills")
	assert.Contains(t, got, "100% of total debits")
}

func TestInsight_SampleShare(t *testing.T) {
	s := Summarize([]models.Transaction{
		txn(1500, models.DirectionDebit, "Bills"),
		txn(1500, models.DirectionCredit, models.CategoryOther),
		txn(7000, models.DirectionDebit, models.CategoryOther),
		txn(1101, models.DirectionDebit, "Food"),
	})

	got := Insight(s)

	assert.Contains(t, got, "Largest spending category: Other")
	assert.Contains(t, got, "89% of total debits")
}

func TestSharePercent(t *testing.T) {
	assert.Equal(t, int64(50), SharePercent(dec(50), dec(100)))
	assert.Equal(t, int64(500), SharePercent(dec(5), decimal.Zero))
	assert.Equal(t, int64(33), SharePercent(dec(1), dec(3)))
	assert.Equal(t, int64(67), SharePercent(dec(2), dec(3)))
}

func TestFormatAmount(t *testing.T) {
	assert.Contains(t, FormatAmount(dec(1500)), "1,500")
	assert.Contains(t, FormatAmount(dec(1500)), "₹")
}

func TestChartSlices(t *testing.T) {
	s := models.Summary{Categories: []models.CategoryTotal{
		{Category: "A", Amount: dec(25)},
		{Category: "Zero", Amount: decimal.Zero},
		{Category: "B", Amount: dec(75)},
	}}

	slices := ChartSlices(s)

	require.Len(t, slices, 2)
	assert.Equal(t, "B", slices[0].Category)
	assert.InDelta(t, 0.75, slices[0].Share, 1e-9)
	assert.Equal(t, "A", slices[1].Category)
	assert.InDelta(t, 0.25, slices[1].Share, 1e-9)
	assert.Empty(t, ChartSlices(models.Summary{}))
}

func categoryNames(cats []models.CategoryTotal) []string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Category
	}
	return names
}
