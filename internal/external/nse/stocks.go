package nse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Stock is one listed equity from the NSE symbol directory.
type Stock struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// FetchStockList downloads the listed-equity CSV and returns symbols with
// company names.
func (c *Client) FetchStockList(ctx context.Context) ([]Stock, error) {
	url := c.archivesURL + "/content/equities/EQUITY_L.csv"

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	stocks, err := parseStockCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse stock list failed: %w", err)
	}

	c.logger.WithField("count", len(stocks)).Debug("Fetched stock list")
	return stocks, nil
}

// parseStockCSV reads the EQUITY_L.csv format, locating the SYMBOL and
// NAME OF COMPANY columns by header.
func parseStockCSV(r io.Reader) ([]Stock, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header failed: %w", err)
	}

	symbolIdx, nameIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.ToUpper(col)) {
		case "SYMBOL":
			symbolIdx = i
		case "NAME OF COMPANY":
			nameIdx = i
		}
	}
	if symbolIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("missing SYMBOL or NAME OF COMPANY column")
	}

	var stocks []Stock
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record failed: %w", err)
		}
		if len(record) <= symbolIdx || len(record) <= nameIdx {
			continue
		}

		symbol := strings.TrimSpace(record[symbolIdx])
		name := strings.TrimSpace(record[nameIdx])
		if symbol == "" {
			continue
		}
		stocks = append(stocks, Stock{Symbol: symbol, Name: name})
	}

	return stocks, nil
}

// FallbackStocks is the minimal symbol set used when the NSE directory
// cannot be reached.
func FallbackStocks() []Stock {
	return []Stock{
		{Symbol: "RELIANCE", Name: "Reliance Industries Limited"},
		{Symbol: "TCS", Name: "Tata Consultancy Services Limited"},
		{Symbol: "HDFCBANK", Name: "HDFC Bank Limited"},
		{Symbol: "INFY", Name: "Infosys Limited"},
		{Symbol: "ICICIBANK", Name: "ICICI Bank Limited"},
	}
}
