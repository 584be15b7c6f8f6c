package coinex

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coinpulse/internal/model"
)

// Client fetches 24h price context for a token from the CoinEx project
// endpoint. Price data is advisory: every failure degrades to nil.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type priceResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		ShortName      string      `json:"short_name"`
		PriceUSD       json.Number `json:"price_usd"`
		ChangeRate     json.Number `json:"change_rate"`
		VolumeUSD      json.Number `json:"volume_usd"`
		CirculationUSD json.Number `json:"circulation_usd"`
	} `json:"data"`
}

// PriceContext returns price data for symbol, or nil when the quote is
// unavailable for any reason.
func (c *Client) PriceContext(ctx context.Context, symbol string) *model.PriceContext {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, strings.ToUpper(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("coinex: price fetch failed", "symbol", symbol, "error", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("coinex: price status", "symbol", symbol, "status", resp.StatusCode)
		return nil
	}
	var raw priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		slog.Warn("coinex: decode price response", "symbol", symbol, "error", err)
		return nil
	}
	if raw.Code != 0 {
		slog.Warn("coinex: price error", "symbol", symbol, "code", raw.Code, "message", raw.Message)
		return nil
	}
	name := raw.Data.ShortName
	if name == "" {
		name = strings.ToUpper(symbol)
	}
	return &model.PriceContext{
		Symbol:     name,
		PriceUSD:   toFloat(raw.Data.PriceUSD),
		ChangeRate: toFloat(raw.Data.ChangeRate),
		VolumeUSD:  toFloat(raw.Data.VolumeUSD),
	}
}

func toFloat(n json.Number) float64 {
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// MovementLabel describes the magnitude of a 24h change rate; injected into
// sentiment prompts as advisory context.
func MovementLabel(changeRate float64) string {
	abs := changeRate
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 0.10:
		return "severe"
	case abs > 0.05:
		return "significant"
	case abs > 0.02:
		return "mild"
	default:
		return "stable"
	}
}
