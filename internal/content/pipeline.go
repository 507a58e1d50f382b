// Package content selects story-worthy traders and markets and posts them as chat messages.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leeaandrob/polystories/internal/models"
	"github.com/leeaandrob/polystories/internal/notify"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// TradersFetchLimit is how many leaderboard entries are requested.
	TradersFetchLimit = 50

	// TraderScanDepth is how many of those are examined, in leaderboard order.
	TraderScanDepth = 10

	// MarketsFetchLimit is the active market page size.
	MarketsFetchLimit = 20

	// MaxStories caps the stories posted per run.
	MaxStories = 3

	// DefaultSendInterval is the pause between consecutive sends.
	DefaultSendInterval = time.Second
)

var errPanic = errors.New("recovered panic")

// MarketSource provides leaderboard and market data.
type MarketSource interface {
	FetchTopTraders(ctx context.Context, limit int) ([]models.Trader, error)
	FetchActiveMarkets(ctx context.Context, limit int) ([]models.Market, error)
}

// Pipeline finds stories and dispatches them through a notifier.
type Pipeline struct {
	source       MarketSource
	notifier     notify.Notifier
	logger       zerolog.Logger
	sendInterval time.Duration
	now          func() time.Time
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithSendInterval sets the pause between sends. Zero disables pacing.
func WithSendInterval(d time.Duration) Option {
	return func(p *Pipeline) {
		p.sendInterval = d
	}
}

// WithClock sets the time source used for story timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a new story pipeline.
func NewPipeline(source MarketSource, notifier notify.Notifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:       source,
		notifier:     notifier,
		logger:       zerolog.Nop(),
		sendInterval: DefaultSendInterval,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With().Str("component", "pipeline").Logger()
	return p
}

// FindStories fetches traders and markets, keeps the interesting ones and
// renders at most MaxStories stories: trader stories first, then market stories.
// Any failure degrades to fewer stories; it never returns an error.
func (p *Pipeline) FindStories(ctx context.Context) (stories []models.Story) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("Error finding stories")
			stories = []models.Story{}
		}
	}()

	p.logger.Info().Msg("Starting story scan")

	var (
		traders   []models.Trader
		markets   []models.Market
		traderErr error
		marketErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		defer recoverAsError(&traderErr)
		traders, traderErr = p.source.FetchTopTraders(ctx, TradersFetchLimit)
		return traderErr
	})
	g.Go(func() error {
		defer recoverAsError(&marketErr)
		markets, marketErr = p.source.FetchActiveMarkets(ctx, MarketsFetchLimit)
		return marketErr
	})
	_ = g.Wait()

	for _, err := range []error{traderErr, marketErr} {
		if errors.Is(err, errPanic) {
			p.logger.Error().Err(err).Msg("Error finding stories")
			return []models.Story{}
		}
	}
	if traderErr != nil {
		p.logger.Warn().Err(traderErr).Msg("Trader fetch failed, continuing without traders")
	}
	if marketErr != nil {
		p.logger.Warn().Err(marketErr).Msg("Market fetch failed, continuing without markets")
	}

	now := p.now().UTC()
	stories = make([]models.Story, 0, MaxStories)

	scan := traders
	if len(scan) > TraderScanDepth {
		scan = scan[:TraderScanDepth]
	}
	for _, t := range scan {
		if IsInterestingTrader(t) {
			stories = append(stories, RenderTraderStory(t, now))
		}
	}

	for _, m := range markets {
		if IsInterestingMarket(m) {
			stories = append(stories, RenderMarketStory(m, now))
		}
	}

	p.logger.Info().
		Int("traders", len(traders)).
		Int("markets", len(markets)).
		Int("candidates", len(stories)).
		Msg("Story scan complete")

	if len(stories) > MaxStories {
		stories = stories[:MaxStories]
	}
	return stories
}

// FallbackStory returns the message posted when no story qualified.
func (p *Pipeline) FallbackStory() models.Story {
	return RenderFallbackStory(p.now().UTC())
}

// Run finds stories and sends them one by one, pausing between sends.
// With no stories it sends exactly one fallback story. A failed send does not
// stop the loop; Sent counts every story processed regardless of delivery.
func (p *Pipeline) Run(ctx context.Context) models.RunResult {
	var result models.RunResult

	stories := p.FindStories(ctx)
	if len(stories) == 0 {
		stories = []models.Story{p.FallbackStory()}
		result.Fallback = true
	}

	for i, story := range stories {
		if i > 0 {
			if err := p.pause(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("Dispatch interrupted")
				break
			}
		} else if err := ctx.Err(); err != nil {
			p.logger.Warn().Err(err).Msg("Dispatch interrupted")
			break
		}

		result.Sent++
		if err := p.notifier.SendMessage(ctx, story.Text); err != nil {
			p.logger.Warn().
				Err(err).
				Str("kind", string(story.Kind)).
				Msg("Story not delivered")
			continue
		}
		result.Delivered++
	}

	p.logger.Info().
		Int("sent", result.Sent).
		Int("delivered", result.Delivered).
		Bool("fallback", result.Fallback).
		Msgf("Sent %d stories", result.Sent)

	return result
}

// pause waits a full send interval after the previous send has returned.
func (p *Pipeline) pause(ctx context.Context) error {
	timer := time.NewTimer(p.sendInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func recoverAsError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", errPanic, r)
	}
}
