// Package summary aggregates categorized transactions into totals, a
// category ranking and a one-line insight.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-insights/internal/models"
)

// TopN is how many categories the ranking keeps.
const TopN = 6

const currencyCode = "INR"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Summarize computes credits, debits and per-category totals. Only credit
// transactions count as credits; debit and unknown directions both count as
// debits. Category totals include every transaction regardless of direction.
func Summarize(txns []models.Transaction) models.Summary {
	s := models.Summary{Credits: decimal.Zero, Debits: decimal.Zero}
	index := make(map[string]int)

	for _, t := range txns {
		amt := t.AmountValue()
		if isCredit(t) {
			s.Credits = s.Credits.Add(amt)
		} else {
			s.Debits = s.Debits.Add(amt)
		}

		cat := t.CategoryText()
		i, ok := index[cat]
		if !ok {
			i = len(s.Categories)
			index[cat] = i
			s.Categories = append(s.Categories, models.CategoryTotal{Category: cat, Amount: decimal.Zero})
		}
		s.Categories[i].Amount = s.Categories[i].Amount.Add(amt)
	}
	return s
}

func isCredit(t models.Transaction) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(t.DirectionText())), "credit")
}

// Rank returns all categories sorted by amount, largest first. Equal
// amounts keep first-occurrence order.
func Rank(s models.Summary) []models.CategoryTotal {
	ranked := make([]models.CategoryTotal, len(s.Categories))
	copy(ranked, s.Categories)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Amount.GreaterThan(ranked[j].Amount)
	})
	return ranked
}

// Top returns at most n ranked categories.
func Top(s models.Summary, n int) []models.CategoryTotal {
	ranked := Rank(s)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Insight describes the largest category and its share of total debits.
func Insight(s models.Summary) string {
	top := Top(s, 1)
	if len(top) == 0 {
		return "No transactions detected."
	}
	return fmt.Sprintf("Largest spending category: %s (%s, %d%% of total debits).",
		top[0].Category, FormatAmount(top[0].Amount), SharePercent(top[0].Amount, s.Debits))
}

// SharePercent is amount as a whole percentage of debits, with debits
// floored at 1 to avoid dividing by zero.
func SharePercent(amount, debits decimal.Decimal) int64 {
	return amount.Div(decimal.Max(debits, one)).Mul(hundred).Round(0).IntPart()
}

// FormatAmount renders a rupee amount for display, e.g. "₹1,500.00".
func FormatAmount(d decimal.Decimal) string {
	return money.New(d.Mul(hundred).Round(0).IntPart(), currencyCode).Display()
}

// Slice is one pie-chart segment.
type Slice struct {
	Category string
	Amount   decimal.Decimal
	// Share is the fraction of the positive total, in [0, 1].
	Share float64
}

// ChartSlices returns the positive category totals in descending order with
// each one's share of their sum.
func ChartSlices(s models.Summary) []Slice {
	var (
		slices []Slice
		total  = decimal.Zero
	)
	for _, c := range Rank(s) {
		if !c.Amount.IsPositive() {
			continue
		}
		total = total.Add(c.Amount)
		slices = append(slices, Slice{Category: c.Category, Amount: c.Amount})
	}
	for i := range slices {
		slices[i].Share = slices[i].Amount.Div(total).InexactFloat64()
	}
	return slices
}
