package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Sentinels substituted for absent fields at the presentation boundary.
const (
	UnknownDate   = "Unknown"
	NoDescription = "N/A"
	CategoryOther = "Other"
)

// Direction is the money-flow marker found in a transaction block.
type Direction string

const (
	DirectionCredit  Direction = "credit"
	DirectionDebit   Direction = "debit"
	DirectionUnknown Direction = "unknown"
)

// Field holds an extracted value, or records that nothing matched.
type Field[T any] struct {
	Value   T
	Present bool
}

// Found wraps a matched value.
func Found[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true}
}

// Absent returns a field for which no pattern matched.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// Or returns the value when present and fallback otherwise.
func (f Field[T]) Or(fallback T) T {
	if f.Present {
		return f.Value
	}
	return fallback
}

// Transaction is the structured record recovered from one block.
// Values are never modified after extraction; WithCategory returns a copy.
type Transaction struct {
	Date        Field[string]
	Description Field[string]
	Amount      Field[decimal.Decimal]
	Direction   Direction
	Category    string
}

// DateText returns the matched date literal or "Unknown".
func (t Transaction) DateText() string {
	return t.Date.Or(UnknownDate)
}

// DescriptionText returns the description or "N/A".
func (t Transaction) DescriptionText() string {
	return t.Description.Or(NoDescription)
}

// AmountValue returns the parsed amount, zero when none was found.
func (t Transaction) AmountValue() decimal.Decimal {
	return t.Amount.Or(decimal.Zero)
}

// CategoryText returns the category label, "Other" if none was assigned.
func (t Transaction) CategoryText() string {
	if t.Category == "" {
		return CategoryOther
	}
	return t.Category
}

// DirectionText returns the direction, "unknown" if unset.
func (t Transaction) DirectionText() string {
	if t.Direction == "" {
		return string(DirectionUnknown)
	}
	return string(t.Direction)
}

// WithCategory returns a copy of t carrying the given category.
func (t Transaction) WithCategory(category string) Transaction {
	t.Category = category
	return t
}

type transactionJSON struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Direction   string      `json:"direction"`
	Amount      json.Number `json:"amount"`
}

// MarshalJSON renders the transaction with sentinels substituted.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Date:        t.DateText(),
		Description: t.DescriptionText(),
		Category:    t.CategoryText(),
		Direction:   t.DirectionText(),
		Amount:      json.Number(t.AmountValue().String()),
	})
}
