// Package categorizer assigns spending categories to transaction
// descriptions by keyword lookup.
package categorizer

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"

	"github.com/insightdelivered/statement-insights/internal/models"
)

// Category is one row of the keyword table.
type Category struct {
	Name     string
	Keywords []string
}

// DefaultTable is the built-in keyword table. Order matters: when keywords
// of several categories match, the earliest category wins.
func DefaultTable() []Category {
	return []Category{
		{Name: "Food", Keywords: []string{"zomato", "swiggy", "restaurant", "hungry", "cafe", "dominos"}},
		{Name: "Groceries", Keywords: []string{"bigbasket", "dmart", "grocery", "supermarket", "reliance"}},
		{Name: "Transport", Keywords: []string{"uber", "ola", "irctc", "metro", "bus", "flight", "indigo"}},
		{Name: "Bills", Keywords: []string{"electricity", "water", "bill", "gtpl", "hathway", "broadband"}},
		{Name: "Salary", Keywords: []string{"salary", "credited", "payroll", "deposit", "freelance"}},
		{Name: "Shopping", Keywords: []string{"amazon", "flipkart", "myntra", "ajio", "store", "shopping"}},
		{Name: "Rent", Keywords: []string{"rent", "landlord"}},
		{Name: "Health", Keywords: []string{"clinic", "hospital", "pharmacy", "doctor"}},
		{Name: "Entertainment", Keywords: []string{"movie", "cinema", "spotify", "bookmyshow"}},
	}
}

// Categorizer matches every keyword of the table in a single pass over the
// description using an Aho-Corasick automaton. It is safe for concurrent use.
type Categorizer struct {
	table   []Category
	matcher *ahocorasick.Matcher
	// the automaton keeps per-match state, so matches are serialized
	mu sync.Mutex
	// owner maps an automaton pattern index to the index of the first
	// category declaring that keyword.
	owner []int
}

// New builds a Categorizer over table. Keywords are matched
// case-insensitively; blank keywords are ignored.
func New(table []Category) *Categorizer {
	c := &Categorizer{table: table}

	seen := make(map[string]bool)
	var patterns []string
	for i, cat := range table {
		for _, kw := range cat.Keywords {
			kw = normalize(kw)
			if kw == "" || seen[kw] {
				continue
			}
			seen[kw] = true
			patterns = append(patterns, kw)
			c.owner = append(c.owner, i)
		}
	}
	if len(patterns) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(patterns)
	}
	return c
}

// Categories returns the category names in table order.
func (c *Categorizer) Categories() []string {
	names := make([]string, len(c.table))
	for i, cat := range c.table {
		names[i] = cat.Name
	}
	return names
}

// Categorize returns the first category, in table order, having a keyword
// contained in the description, or "Other".
func (c *Categorizer) Categorize(description string) string {
	if c.matcher == nil {
		return models.CategoryOther
	}
	c.mu.Lock()
	hits := c.matcher.Match([]byte(normalize(description)))
	c.mu.Unlock()
	if len(hits) == 0 {
		return models.CategoryOther
	}

	best := len(c.table)
	for _, h := range hits {
		if h >= 0 && h < len(c.owner) && c.owner[h] < best {
			best = c.owner[h]
		}
	}
	if best == len(c.table) {
		return models.CategoryOther
	}
	return c.table[best].Name
}

// Apply returns a copy of txns with categories assigned from descriptions.
// An absent description is categorized as the "N/A" sentinel would be.
func (c *Categorizer) Apply(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	for i, t := range txns {
		out[i] = t.WithCategory(c.Categorize(t.DescriptionText()))
	}
	return out
}

// normalize lower-cases s and strips rupee signs and commas.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("₹", "", ",", "").Replace(s)
	return strings.TrimSpace(s)
}
