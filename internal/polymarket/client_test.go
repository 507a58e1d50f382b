package polymarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, path string, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTopTraders(t *testing.T) {
	t.Run("preserves upstream order and applies limit", func(t *testing.T) {
		srv := newTestServer(t, "/leaderboard", http.StatusOK, `{"leaderboard":[
			{"username":"alice","pnl":12000.5,"volume":1000},
			{"username":"bob","pnl":"-250.25","volume":"75000"},
			{"username":"carol","pnl":1,"volume":2}
		]}`)
		c := NewClient(WithGammaURL(srv.URL))

		traders, err := c.FetchTopTraders(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, traders, 2)

		assert.Equal(t, "alice", traders[0].Username)
		assert.True(t, traders[0].PnL.Equal(decimal.RequireFromString("12000.5")))
		assert.Equal(t, "bob", traders[1].Username)
		assert.True(t, traders[1].PnL.Equal(decimal.RequireFromString("-250.25")))
		assert.True(t, traders[1].Volume.Equal(decimal.NewFromInt(75000)))
	})

	t.Run("missing fields take defaults", func(t *testing.T) {
		srv := newTestServer(t, "/leaderboard", http.StatusOK, `{"leaderboard":[{}, {"username":"","pnl":null,"volume":""}]}`)
		c := NewClient(WithGammaURL(srv.URL))

		traders, err := c.FetchTopTraders(context.Background(), DefaultTradersLimit)
		require.NoError(t, err)
		require.Len(t, traders, 2)

		assert.Equal(t, "Anonymous", traders[0].Username)
		assert.True(t, traders[0].PnL.IsZero())
		assert.True(t, traders[0].Volume.IsZero())

		// Present but empty is not absent
		assert.Equal(t, "", traders[1].Username)
		assert.True(t, traders[1].PnL.IsZero())
		assert.True(t, traders[1].Volume.IsZero())
	})

	t.Run("bare array body", func(t *testing.T) {
		srv := newTestServer(t, "/leaderboard", http.StatusOK, `[{"username":"dave","pnl":5}]`)
		c := NewClient(WithGammaURL(srv.URL))

		traders, err := c.FetchTopTraders(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, traders, 1)
		assert.Equal(t, "dave", traders[0].Username)
	})

	t.Run("missing key yields empty list", func(t *testing.T) {
		srv := newTestServer(t, "/leaderboard", http.StatusOK, `{"other":[]}`)
		c := NewClient(WithGammaURL(srv.URL))

		traders, err := c.FetchTopTraders(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, traders)
	})

	t.Run("non-200 returns empty and error", func(t *testing.T) {
		srv := newTestServer(t, "/leaderboard", http.StatusInternalServerError, `oops`)
		c := NewClient(WithGammaURL(srv.URL))

		traders, err := c.FetchTopTraders(context.Background(), 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.NotNil(t, traders)
		assert.Empty(t, traders)
	})

	t.Run("malformed body returns empty and error", func(t *testing.T) {
		srv := newTestServer(t, "/leaderboard", http.StatusOK, `{"leaderboard":`)
		c := NewClient(WithGammaURL(srv.URL))

		traders, err := c.FetchTopTraders(context.Background(), 10)
		require.Error(t, err)
		assert.Empty(t, traders)
	})

	t.Run("transport error returns empty and error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(WithGammaURL(url), WithTimeout(time.Second))
		traders, err := c.FetchTopTraders(context.Background(), 10)
		require.Error(t, err)
		assert.Empty(t, traders)
	})
}

func TestFetchActiveMarkets(t *testing.T) {
	t.Run("filters inactive and sorts by volume", func(t *testing.T) {
		srv := newTestServer(t, "/markets", http.StatusOK, `{"markets":[
			{"active":true,"volume":10},
			{"active":false,"volume":999},
			{"active":true,"volume":50}
		]}`)
		c := NewClient(WithGammaURL(srv.URL))

		markets, err := c.FetchActiveMarkets(context.Background(), DefaultMarketsLimit)
		require.NoError(t, err)
		require.Len(t, markets, 2)
		assert.True(t, markets[0].Volume.Equal(decimal.NewFromInt(50)))
		assert.True(t, markets[1].Volume.Equal(decimal.NewFromInt(10)))
	})

	t.Run("ties keep upstream order", func(t *testing.T) {
		srv := newTestServer(t, "/markets", http.StatusOK, `{"markets":[
			{"question":"first","active":true,"volume":"100"},
			{"question":"second","active":true,"volume":"100"},
			{"question":"third","active":true,"volume":"200"}
		]}`)
		c := NewClient(WithGammaURL(srv.URL))

		markets, err := c.FetchActiveMarkets(context.Background(), DefaultMarketsLimit)
		require.NoError(t, err)
		require.Len(t, markets, 3)
		assert.Equal(t, "third", markets[0].Question)
		assert.Equal(t, "first", markets[1].Question)
		assert.Equal(t, "second", markets[2].Question)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		srv := newTestServer(t, "/markets", http.StatusOK, `[
			{"active":true,"volume":1},
			{"active":true,"volume":2},
			{"active":true,"volume":3}
		]`)
		c := NewClient(WithGammaURL(srv.URL))

		markets, err := c.FetchActiveMarkets(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, markets, 2)
		assert.True(t, markets[0].Volume.Equal(decimal.NewFromInt(3)))
	})

	t.Run("defaults and gamma field variants", func(t *testing.T) {
		srv := newTestServer(t, "/markets", http.StatusOK, `{"markets":[
			{"active":true},
			{"active":true,"question":"Will it rain?","slug":"will-it-rain","volumeNum":42.5,"featured":true}
		]}`)
		c := NewClient(WithGammaURL(srv.URL))

		markets, err := c.FetchActiveMarkets(context.Background(), DefaultMarketsLimit)
		require.NoError(t, err)
		require.Len(t, markets, 2)

		assert.Equal(t, "Will it rain?", markets[0].Question)
		assert.True(t, markets[0].Featured)
		assert.True(t, markets[0].Volume.Equal(decimal.RequireFromString("42.5")))
		assert.Equal(t, "https://polymarket.com/market/will-it-rain", markets[0].Link())

		assert.Equal(t, "Unknown", markets[1].Question)
		assert.False(t, markets[1].Featured)
		assert.True(t, markets[1].Volume.IsZero())
		assert.Equal(t, "", markets[1].Link())
	})

	t.Run("non-200 returns empty and error", func(t *testing.T) {
		srv := newTestServer(t, "/markets", http.StatusNotFound, `{}`)
		c := NewClient(WithGammaURL(srv.URL))

		markets, err := c.FetchActiveMarkets(context.Background(), DefaultMarketsLimit)
		require.Error(t, err)
		assert.NotNil(t, markets)
		assert.Empty(t, markets)
	})
}

func TestFetchBigTrades(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[
			{"name":"whale","title":"Will BTC hit $100k?","side":"BUY","size":10000,"price":0.5,"timestamp":1700000000},
			{"pseudonym":"Shrimp","title":"Small market","side":"SELL","size":10,"price":0.5,"timestamp":1700000500},
			{"proxyWallet":"0xabc","title":"Late whale","side":"BUY","size":"4000","price":"0.25","timestamp":1700001000}
		]`))
	}))
	defer srv.Close()

	c := NewClient(WithDataURL(srv.URL))
	trades, err := c.FetchBigTrades(context.Background(), decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Contains(t, gotQuery, "filterAmount=1000")
	assert.Contains(t, gotQuery, "filterType=CASH")

	// Newest first
	assert.Equal(t, "0xabc", trades[0].User)
	assert.True(t, trades[0].Notional().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "whale", trades[1].User)
	assert.Equal(t, "Will BTC hit $100k?", trades[1].Market)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), trades[1].Timestamp)
}
