package polymarket

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/leeaandrob/polystories/internal/models"
	"github.com/shopspring/decimal"
)

// Amount handles USD fields that come either as JSON numbers or numeric strings.
// Null and empty strings decode to zero.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "null", `""`:
		a.Decimal = decimal.Zero
		return nil
	}
	return a.Decimal.UnmarshalJSON(data)
}

// traderRecord is a leaderboard entry as sent upstream. Pointer fields
// distinguish "absent" from "empty" so defaults apply only to the former.
type traderRecord struct {
	Username *string `json:"username"`
	PnL      Amount  `json:"pnl"`
	Volume   Amount  `json:"volume"`
}

func (r *traderRecord) toModel() models.Trader {
	t := models.Trader{
		Username: models.DefaultUsername,
		PnL:      r.PnL.Decimal,
		Volume:   r.Volume.Decimal,
	}
	if r.Username != nil {
		t.Username = *r.Username
	}
	return t
}

// marketRecord is a market as listed by the Gamma API.
type marketRecord struct {
	Question  *string `json:"question"`
	Slug      string  `json:"slug"`
	URL       string  `json:"url"`
	Volume    *Amount `json:"volume"`
	VolumeNum *Amount `json:"volumeNum"`
	Featured  bool    `json:"featured"`
	Active    bool    `json:"active"`
}

func (r *marketRecord) toModel() models.Market {
	m := models.Market{
		Question: models.DefaultQuestion,
		Slug:     r.Slug,
		URL:      r.URL,
		Volume:   decimal.Zero,
		Featured: r.Featured,
		Active:   r.Active,
	}
	if r.Question != nil {
		m.Question = *r.Question
	}

	// Gamma sends volume as a string and mirrors it in volumeNum
	switch {
	case r.Volume != nil:
		m.Volume = r.Volume.Decimal
	case r.VolumeNum != nil:
		m.Volume = r.VolumeNum.Decimal
	}
	return m
}

// tradeRecord is a fill as reported by the Data API.
type tradeRecord struct {
	ProxyWallet string `json:"proxyWallet"`
	Name        string `json:"name"`
	Pseudonym   string `json:"pseudonym"`
	Side        string `json:"side"`
	Title       string `json:"title"`
	Outcome     string `json:"outcome"`
	Size        Amount `json:"size"`
	Price       Amount `json:"price"`
	Timestamp   int64  `json:"timestamp"`
}

func (r *tradeRecord) toModel() models.Trade {
	user := r.Name
	if user == "" {
		user = r.Pseudonym
	}
	if user == "" {
		user = r.ProxyWallet
	}

	return models.Trade{
		User:      user,
		Market:    r.Title,
		Side:      r.Side,
		Outcome:   r.Outcome,
		Size:      r.Size.Decimal,
		Price:     r.Price.Decimal,
		Timestamp: time.Unix(r.Timestamp, 0).UTC(),
	}
}

// decodeList decodes a list that is either wrapped in an object under key
// or sent as a bare JSON array. A missing key yields an empty list.
func decodeList[T any](body []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}

	raw, ok := envelope[key]
	if !ok || string(raw) == "null" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
