package models

import "github.com/shopspring/decimal"

const (
	// PolymarketURL is the public site root used for deep links.
	PolymarketURL = "https://polymarket.com"

	// DefaultQuestion is used when a market arrives without a question.
	DefaultQuestion = "Unknown"
)

// Market represents a prediction market as listed by the Gamma API.
type Market struct {
	Question string          `json:"question"`
	Slug     string          `json:"slug,omitempty"`
	URL      string          `json:"url,omitempty"`
	Volume   decimal.Decimal `json:"volume"`
	Featured bool            `json:"featured"`
	Active   bool            `json:"active"`
}

// Link returns the market URL, falling back to one built from the slug.
// Returns "" when neither is known.
func (m *Market) Link() string {
	if m.URL != "" {
		return m.URL
	}
	if m.Slug != "" {
		return PolymarketURL + "/market/" + m.Slug
	}
	return ""
}
