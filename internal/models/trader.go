// Package models defines the core data structures for polystories.
package models

import "github.com/shopspring/decimal"

// DefaultUsername is used when the leaderboard omits a trader's name.
const DefaultUsername = "Anonymous"

// Trader represents a leaderboard entry.
type Trader struct {
	Username string          `json:"username"`
	PnL      decimal.Decimal `json:"pnl"`    // Signed, USD
	Volume   decimal.Decimal `json:"volume"` // USD
}

// ProfileURL returns the trader's public Polymarket profile.
func (t *Trader) ProfileURL() string {
	return PolymarketURL + "/@" + t.Username
}
