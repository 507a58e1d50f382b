package models

import "time"

// StoryKind represents what a story is about.
type StoryKind string

const (
	// StoryKindTrader is a whale alert about a leaderboard trader.
	StoryKindTrader StoryKind = "trader"

	// StoryKindMarket is a hot market alert.
	StoryKindMarket StoryKind = "market"

	// StoryKindFallback is posted when nothing qualified.
	StoryKindFallback StoryKind = "fallback"
)

// Story is a fully rendered chat message.
type Story struct {
	Kind        StoryKind
	Text        string
	GeneratedAt time.Time
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	// Sent counts stories processed, whether or not delivery succeeded.
	Sent int

	// Delivered counts sends the notifier reported as successful.
	Delivered int

	// Fallback is true when no story qualified and the fallback was sent.
	Fallback bool
}
