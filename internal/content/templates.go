package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/leeaandrob/polystories/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TimestampLayout is the generation time format embedded in every story.
const TimestampLayout = "2006-01-02 15:04 UTC"

// RenderTraderStory renders a whale alert. Upstream fields are not escaped.
func RenderTraderStory(t models.Trader, now time.Time) models.Story {
	var b strings.Builder

	b.WriteString("🐋 **New Polymarket Whale Alert!** 🐋\n\n")
	b.WriteString(fmt.Sprintf("Meet **%s** - just entered the top traders with impressive stats:\n\n", t.Username))
	b.WriteString(fmt.Sprintf("• P&L: `%s`\n", formatUSD(t.PnL)))
	b.WriteString(fmt.Sprintf("• Volume: `%s`\n", formatUSD(t.Volume)))
	b.WriteString(fmt.Sprintf("• Profile: %s\n\n", t.ProfileURL()))
	b.WriteString("This trader is making waves in prediction markets. Are they a savvy institutional player or a lucky retail trader?\n\n")
	b.WriteString("#Polymarket #WhaleAlert #PredictionMarkets\n\n")
	b.WriteString(generatedAt(now))

	return models.Story{Kind: models.StoryKindTrader, Text: b.String(), GeneratedAt: now}
}

// RenderMarketStory renders a hot market alert. Upstream fields are not escaped.
func RenderMarketStory(m models.Market, now time.Time) models.Story {
	var b strings.Builder

	b.WriteString("📊 **Hot Market Alert!** 📊\n\n")
	b.WriteString(fmt.Sprintf("Market: **%s**\n\n", m.Question))
	b.WriteString(fmt.Sprintf("Trading volume: `%s`\n\n", formatUSD(m.Volume)))
	b.WriteString("This market is seeing massive attention right now. Big money is moving - someone knows something?\n\n")
	b.WriteString(fmt.Sprintf("Trade here: %s\n\n", m.Link()))
	b.WriteString("#Polymarket #Trading #MarketAlert\n\n")
	b.WriteString(generatedAt(now))

	return models.Story{Kind: models.StoryKindMarket, Text: b.String(), GeneratedAt: now}
}

// RenderFallbackStory renders the message posted when nothing qualified.
func RenderFallbackStory(now time.Time) models.Story {
	var b strings.Builder

	b.WriteString("🔍 **Daily Polymarket Scan Complete**\n\n")
	b.WriteString("No extraordinary whale activity detected today. \n\n")
	b.WriteString("The markets are relatively calm, but keep watching - big moves can happen anytime!\n\n")
	b.WriteString(fmt.Sprintf("Check live markets: %s\n\n", models.PolymarketURL))
	b.WriteString("#Polymarket #DailyUpdate #Trading\n\n")
	b.WriteString(generatedAt(now))

	return models.Story{Kind: models.StoryKindFallback, Text: b.String(), GeneratedAt: now}
}

func generatedAt(now time.Time) string {
	return "*Generated at " + now.UTC().Format(TimestampLayout) + "*"
}

var usdPrinter = message.NewPrinter(language.English)

// formatUSD renders an amount as thousands-grouped dollars with two decimals,
// e.g. $1,234.56 or $-1,234.56.
func formatUSD(d decimal.Decimal) string {
	return "$" + usdPrinter.Sprintf("%.2f", d.InexactFloat64())
}
