package screener

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

// Client scrapes per-company fundamentals from screener.in pages.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new screener client
func NewClient(cfg config.ScreenerConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "screener"),
		baseURL:    cfg.BaseURL,
	}
}

// FetchFundamentals scrapes the company page for one symbol. The company
// name is carried through so a failed sector lookup can still fall back to
// name keywords.
func (c *Client) FetchFundamentals(ctx context.Context, symbol, name string) (contracts.Fundamentals, error) {
	url := fmt.Sprintf("%s/company/%s/", c.baseURL, symbol)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return contracts.Fundamentals{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.Fundamentals{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.Fundamentals{}, fmt.Errorf("read response body failed: %w", err)
	}

	fund := parseCompanyPage(string(body), name)
	fund.Name = name
	if fund.Name == "" {
		fund.Name = symbol
	}

	c.logger.WithField("symbol", symbol).Debug("Fetched fundamentals")
	return fund, nil
}

// parseCompanyPage extracts the ratio list, sector link, industry P/E note,
// and quarterly results table from the company page HTML.
func parseCompanyPage(html, companyName string) contracts.Fundamentals {
	var fund contracts.Fundamentals

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fund
	}

	fund.Sector = extractSector(doc, companyName)

	ratios := make(map[string]contracts.OptFloat)
	doc.Find("li.flex").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Find("span.name").First().Text())
		value := strings.TrimSpace(s.Find("span.number").First().Text())
		if label == "" || value == "" {
			return
		}
		ratios[label] = parseRatioValue(value)
	})

	fund.MarketCap = ratios["Market Cap"]
	fund.PERatio = firstValid(ratios["Stock P/E"], ratios["P/E"])
	fund.EPS = ratios["EPS"]
	fund.BookValue = ratios["Book Value"]
	fund.DebtToEquity = firstValid(ratios["Debt / Equity"], ratios["Debt to equity"])
	fund.ROE = ratios["ROE"]
	fund.ROCE = ratios["ROCE"]
	fund.DividendYield = firstValid(ratios["Div Yield"], ratios["Dividend Yield"])

	fund.IndustryPE = extractIndustryPE(doc)
	fund.QuarterlyResults = extractQuarterlyResults(doc)

	return fund
}

// parseRatioValue converts a displayed ratio to a number. Percent signs
// drop away, crore figures scale to rupees, and thousands separators are
// handled by the tolerant number parsing in contracts.
func parseRatioValue(text string) contracts.OptFloat {
	crores := strings.Contains(text, "Cr.")
	cleaned := strings.NewReplacer("%", "", "Cr.", "", "₹", "").Replace(text)
	cleaned = strings.TrimSpace(cleaned)

	value := contracts.ParseOptFloat(cleaned)
	if value.Valid && crores {
		return contracts.Float(value.Value * 1e7)
	}
	return value
}

func firstValid(values ...contracts.OptFloat) contracts.OptFloat {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return contracts.None()
}

func extractSector(doc *goquery.Document, companyName string) string {
	sector := strings.TrimSpace(doc.Find(`a[href^="/screen/sector/"]`).First().Text())
	if sector != "" && sector != "Unknown" {
		return sector
	}
	if guessed := sectorFromName(companyName); guessed != "" {
		return guessed
	}
	return "Unknown"
}

func extractIndustryPE(doc *goquery.Document) contracts.OptFloat {
	result := contracts.None()
	doc.Find("p.text-right").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "Industry P/E") {
			return true
		}
		text = strings.TrimSpace(strings.ReplaceAll(text, "Industry P/E:", ""))
		result = contracts.ParseOptFloat(text)
		return false
	})
	return result
}

// extractQuarterlyResults reads the quarterly table rows in display order,
// newest first, taking the fourth cell as net profit like the source lays
// it out.
func extractQuarterlyResults(doc *goquery.Document) []contracts.QuarterlyResult {
	var results []contracts.QuarterlyResult

	doc.Find("table.data-table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := table.Find("th").First().Text()
		if !strings.Contains(header, "Quarterly Results") {
			return true
		}

		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := row.Find("td")
			if cells.Length() < 4 {
				return
			}
			period := strings.TrimSpace(cells.Eq(0).Text())
			if period == "" {
				return
			}
			profit := parseRatioValue(strings.TrimSpace(cells.Eq(3).Text()))
			results = append(results, contracts.QuarterlyResult{
				Period:    period,
				NetProfit: profit,
			})
		})
		return false
	})

	return results
}
