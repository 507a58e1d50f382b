package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade represents a single fill reported by the Data API.
type Trade struct {
	User      string          `json:"user"`
	Market    string          `json:"market"`
	Side      string          `json:"side"`
	Outcome   string          `json:"outcome,omitempty"`
	Size      decimal.Decimal `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// Notional returns the USD value of the trade (size * price).
func (t *Trade) Notional() decimal.Decimal {
	return t.Size.Mul(t.Price)
}
