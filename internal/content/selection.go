package content

import (
	"github.com/leeaandrob/polystories/internal/models"
	"github.com/shopspring/decimal"
)

// Selection thresholds, USD.
var (
	whalePnLThreshold     = decimal.NewFromInt(10_000)
	whaleVolumeThreshold  = decimal.NewFromInt(50_000)
	marketVolumeThreshold = decimal.NewFromInt(100_000)
)

// IsInterestingTrader reports whether a trader is story-worthy:
// more than $10k P&L or more than $50k volume.
func IsInterestingTrader(t models.Trader) bool {
	return t.PnL.GreaterThan(whalePnLThreshold) || t.Volume.GreaterThan(whaleVolumeThreshold)
}

// IsInterestingMarket reports whether a market is story-worthy:
// more than $100k volume or featured by Polymarket.
func IsInterestingMarket(m models.Market) bool {
	return m.Volume.GreaterThan(marketVolumeThreshold) || m.Featured
}
