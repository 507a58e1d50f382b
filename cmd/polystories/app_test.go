package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leeaandrob/polystories/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppEndToEnd(t *testing.T) {
	gamma := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/leaderboard":
			_, _ = w.Write([]byte(`{"leaderboard":[{"username":"whale","pnl":25000,"volume":1}]}`))
		case "/markets":
			_, _ = w.Write([]byte(`{"markets":[{"question":"Hot?","active":true,"volume":"250000","url":"https://polymarket.com/event/hot"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer gamma.Close()

	var posts atomic.Int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer webhook.Close()

	cfg := &config.Config{
		DiscordWebhookURL: webhook.URL,
		BotUsername:       "Polymarket Bot",
		GammaAPIURL:       gamma.URL,
		DataAPIURL:        gamma.URL,
		HTTPTimeout:       5 * time.Second,
	}

	a := newApp(cfg, zerolog.Nop())
	require.Len(t, a.notifier, 1, "telegram mirror is off without credentials")

	result := a.pipeline.Run(context.Background())
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 2, result.Delivered)
	assert.False(t, result.Fallback)
	assert.Equal(t, int32(2), posts.Load())
}

func TestNewAppWithoutWebhook(t *testing.T) {
	cfg := &config.Config{
		GammaAPIURL: "http://127.0.0.1:1",
		DataAPIURL:  "http://127.0.0.1:1",
		HTTPTimeout: time.Second,
	}

	a := newApp(cfg, zerolog.Nop())
	result := a.pipeline.Run(context.Background())

	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.Delivered)
	assert.True(t, result.Fallback)
}
