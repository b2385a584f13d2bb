package mcx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/httputil"
	"github.com/finzo/backend/pkg/logger"
)

// trackedCommodities maps the summary-page id of each tracked commodity to
// its display name.
var trackedCommodities = []struct {
	id   string
	name string
}{
	{"1", "Gold"},
	{"2", "Silver"},
	{"3", "Crude Oil"},
	{"4", "Natural Gas"},
	{"5", "Copper"},
	{"13", "Aluminium"},
}

// Client scrapes commodity spot quotes from the summary pages.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new commodity quote client
func NewClient(cfg config.MCXConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "mcx"),
		baseURL:    cfg.BaseURL,
	}
}

// FetchCommodities scrapes the quote page for each tracked commodity.
// A commodity whose page fails to fetch or parse is skipped; the caller
// decides whether an empty result warrants the sample fallback.
func (c *Client) FetchCommodities(ctx context.Context) (map[string]contracts.Commodity, error) {
	commodities := make(map[string]contracts.Commodity)

	for _, tracked := range trackedCommodities {
		select {
		case <-ctx.Done():
			return commodities, ctx.Err()
		default:
		}

		quote, err := c.fetchQuote(ctx, tracked.id)
		if err != nil {
			c.logger.WithError(err).WithField("commodity", tracked.name).Warn("Failed to fetch commodity quote")
			continue
		}
		quote.Unit = unitFor(tracked.name)
		commodities[tracked.name] = quote
	}

	c.logger.WithField("count", len(commodities)).Debug("Fetched commodities")
	return commodities, nil
}

func (c *Client) fetchQuote(ctx context.Context, id string) (contracts.Commodity, error) {
	url := fmt.Sprintf("%s/%s.cms", c.baseURL, id)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return contracts.Commodity{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.Commodity{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.Commodity{}, fmt.Errorf("read response body failed: %w", err)
	}

	return parseQuotePage(string(body))
}

// parseQuotePage extracts the price and day-change figures from the quote
// page markup.
func parseQuotePage(html string) (contracts.Commodity, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return contracts.Commodity{}, fmt.Errorf("parse HTML failed: %w", err)
	}

	priceText := strings.TrimSpace(doc.Find(".commodityPrice").First().Text())
	priceText = strings.ReplaceAll(priceText, "₹", "")
	price := contracts.ParseOptFloat(priceText)
	if !price.Valid {
		return contracts.Commodity{}, fmt.Errorf("no price found")
	}

	changeText := strings.TrimSpace(doc.Find(".commodityChange").First().Text())
	changeText = strings.ReplaceAll(changeText, "%", "")
	changeText = strings.TrimPrefix(changeText, "+")

	return contracts.Commodity{
		CurrentPrice: price,
		DayChange:    contracts.ParseOptFloat(changeText),
	}, nil
}

func unitFor(name string) string {
	switch name {
	case "Gold", "Silver":
		return "per 10 grams"
	case "Crude Oil":
		return "per barrel"
	case "Natural Gas":
		return "per mmBtu"
	default:
		return "per kg"
	}
}

// SampleCommodities is the fallback quote set used when no pages parse.
func SampleCommodities() map[string]contracts.Commodity {
	return map[string]contracts.Commodity{
		"Gold":        {CurrentPrice: contracts.Float(58750.0), DayChange: contracts.Float(0.12), Unit: "per 10 grams"},
		"Silver":      {CurrentPrice: contracts.Float(72500.0), DayChange: contracts.Float(0.28), Unit: "per 10 grams"},
		"Crude Oil":   {CurrentPrice: contracts.Float(6090.0), DayChange: contracts.Float(-0.52), Unit: "per barrel"},
		"Natural Gas": {CurrentPrice: contracts.Float(245.0), DayChange: contracts.Float(0.75), Unit: "per mmBtu"},
		"Copper":      {CurrentPrice: contracts.Float(776.0), DayChange: contracts.Float(0.14), Unit: "per kg"},
	}
}
