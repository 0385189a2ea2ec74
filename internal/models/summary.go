package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CategoryTotal is one category's summed amount.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// Summary is the aggregate view over one parse run's transactions.
//
// Categories preserves the order in which each category was first seen, so
// ranking ties resolve the same way on every run.
type Summary struct {
	Credits    decimal.Decimal
	Debits     decimal.Decimal
	Categories []CategoryTotal
}

// Net is credits minus debits.
func (s Summary) Net() decimal.Decimal {
	return s.Credits.Sub(s.Debits)
}

// CatMap returns category totals keyed by category.
func (s Summary) CatMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.Categories))
	for _, c := range s.Categories {
		m[c.Category] = c.Amount
	}
	return m
}

// MarshalJSON renders amounts as JSON numbers.
func (s Summary) MarshalJSON() ([]byte, error) {
	catMap := make(map[string]json.Number, len(s.Categories))
	for _, c := range s.Categories {
		catMap[c.Category] = json.Number(c.Amount.String())
	}
	return json.Marshal(struct {
		Credits json.Number            `json:"credits"`
		Debits  json.Number            `json:"debits"`
		Net     json.Number            `json:"net"`
		CatMap  map[string]json.Number `json:"catMap"`
	}{
		Credits: json.Number(s.Credits.String()),
		Debits:  json.Number(s.Debits.String()),
		Net:     json.Number(s.Net().String()),
		CatMap:  catMap,
	})
}

// MarshalJSON renders a ranked category entry.
func (c CategoryTotal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category string      `json:"category"`
		Amount   json.Number `json:"amount"`
	}{c.Category, json.Number(c.Amount.String())})
}
