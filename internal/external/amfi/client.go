package amfi

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/httputil"
	"github.com/finzo/backend/pkg/logger"
)

// Client fetches the AMFI daily NAV feed: a semicolon-separated text file
// with AMC header lines interleaved between scheme rows.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	navURL     string
}

// NewClient creates a new AMFI client
func NewClient(cfg config.AMFIConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "amfi"),
		navURL:     cfg.NAVURL,
	}
}

// FetchFunds downloads and parses the NAVAll feed, keyed by scheme code.
func (c *Client) FetchFunds(ctx context.Context) (map[string]contracts.MutualFund, error) {
	resp, err := c.httpClient.Get(ctx, c.navURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	funds := parseNAVFeed(resp.Body)
	if len(funds) == 0 {
		return nil, fmt.Errorf("no funds parsed from NAV feed")
	}

	c.logger.WithField("count", len(funds)).Debug("Fetched mutual funds")
	return funds, nil
}

// parseNAVFeed walks the feed line by line. Lines that do not start with a
// digit and carry no semicolons are AMC or scheme-type headers; data lines
// are `code;isin;isin;name;nav;date`.
func parseNAVFeed(r io.Reader) map[string]contracts.MutualFund {
	funds := make(map[string]contracts.MutualFund)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] < '0' || line[0] > '9' {
			if !strings.Contains(line, ";") {
				continue // header line
			}
			continue // column header row
		}

		parts := strings.Split(line, ";")
		if len(parts) < 5 {
			continue
		}

		code := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[3])
		nav := contracts.ParseOptFloat(parts[4])
		if code == "" || name == "" || !nav.Valid {
			continue
		}

		category := categorize(name)
		funds[code] = contracts.MutualFund{
			Name:      name,
			Category:  category,
			NAV:       nav,
			RiskLevel: riskLevelFor(category),
		}
	}

	return funds
}

// categorize infers the fund category from keywords in the scheme name
func categorize(name string) string {
	upper := strings.ToUpper(name)
	switch {
	case strings.Contains(upper, "EQUITY"):
		return "Equity"
	case strings.Contains(upper, "DEBT"), strings.Contains(upper, "BOND"):
		return "Debt"
	case strings.Contains(upper, "HYBRID"), strings.Contains(upper, "BALANCED"):
		return "Hybrid"
	case strings.Contains(upper, "LIQUID"):
		return "Liquid"
	case strings.Contains(upper, "INDEX"):
		return "Index"
	case strings.Contains(upper, "GILT"):
		return "Gilt"
	default:
		return "Unknown"
	}
}

func riskLevelFor(category string) string {
	switch category {
	case "Equity":
		return "High"
	case "Debt", "Liquid", "Gilt":
		return "Low"
	default:
		return "Medium"
	}
}

// SampleFunds is the fallback fund set used when the feed is unreachable.
func SampleFunds() map[string]contracts.MutualFund {
	return map[string]contracts.MutualFund{
		"119551": {
			Name:            "Axis Bluechip Fund - Direct Plan - Growth",
			Category:        "Equity",
			NAV:             contracts.Float(45.21),
			RiskRating:      contracts.Float(8),
			OneYearReturn:   contracts.Float(12.5),
			ThreeYearReturn: contracts.Float(10.2),
			FiveYearReturn:  contracts.Float(9.5),
			ExpenseRatio:    contracts.Float(0.45),
			AUMCrores:       contracts.Float(2500.75),
		},
		"119775": {
			Name:            "HDFC Corporate Bond Fund - Direct Plan - Growth",
			Category:        "Debt",
			NAV:             contracts.Float(28.36),
			RiskRating:      contracts.Float(4),
			OneYearReturn:   contracts.Float(7.2),
			ThreeYearReturn: contracts.Float(8.1),
			FiveYearReturn:  contracts.Float(7.8),
			ExpenseRatio:    contracts.Float(0.35),
			AUMCrores:       contracts.Float(3200.50),
		},
	}
}
