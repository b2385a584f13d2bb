package nse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"time"
)

// Candle is one daily bar from the NSE historical API.
type Candle struct {
	Date   time.Time
	Close  float64
	Volume float64
}

type historicalResponse struct {
	Data []struct {
		Timestamp string  `json:"CH_TIMESTAMP"`
		Close     float64 `json:"CH_CLOSING_PRICE"`
		Volume    float64 `json:"CH_TOT_TRADED_QTY"`
	} `json:"data"`
}

// FetchDailyHistory returns up to the last `days` daily bars for a symbol,
// oldest first.
func (c *Client) FetchDailyHistory(ctx context.Context, symbol string, days int) ([]Candle, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("series", `["EQ"]`)
	params.Set("from", from.Format("02-01-2006"))
	params.Set("to", to.Format("02-01-2006"))

	fullURL := fmt.Sprintf("%s/historical/cm/equity?%s", c.apiURL, params.Encode())

	resp, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	candles, err := parseHistory(body)
	if err != nil {
		return nil, fmt.Errorf("parse history for %s failed: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(candles),
	}).Debug("Fetched daily history")
	return candles, nil
}

func parseHistory(body []byte) ([]Candle, error) {
	var parsed historicalResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	candles := make([]Candle, 0, len(parsed.Data))
	for _, row := range parsed.Data {
		date, err := time.Parse("2006-01-02", row.Timestamp)
		if err != nil {
			continue
		}
		candles = append(candles, Candle{Date: date, Close: row.Close, Volume: row.Volume})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Date.Before(candles[j].Date)
	})
	return candles, nil
}
