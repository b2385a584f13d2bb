package nse

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStockCSV(t *testing.T) {
	csvData := `SYMBOL,NAME OF COMPANY, SERIES, DATE OF LISTING, PAID UP VALUE
RELIANCE,Reliance Industries Limited,EQ,29-NOV-1995,10
TCS,Tata Consultancy Services Limited,EQ,25-AUG-2004,1
INFY,Infosys Limited,EQ,08-FEB-1995,5
`
	stocks, err := parseStockCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	require.Len(t, stocks, 3)
	assert.Equal(t, "RELIANCE", stocks[0].Symbol)
	assert.Equal(t, "Reliance Industries Limited", stocks[0].Name)
	assert.Equal(t, "INFY", stocks[2].Symbol)
}

func TestParseStockCSV_MissingColumns(t *testing.T) {
	_, err := parseStockCSV(strings.NewReader("FOO,BAR\n1,2\n"))
	require.Error(t, err)
}

func TestParseHistory(t *testing.T) {
	body := []byte(`{"data": [
		{"CH_TIMESTAMP": "2026-08-27", "CH_CLOSING_PRICE": 2510.5, "CH_TOT_TRADED_QTY": 1200000},
		{"CH_TIMESTAMP": "2026-08-26", "CH_CLOSING_PRICE": 2490.0, "CH_TOT_TRADED_QTY": 900000}
	]}`)

	candles, err := parseHistory(body)
	require.NoError(t, err)

	// Sorted oldest first regardless of feed order
	require.Len(t, candles, 2)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), candles[0].Date)
	assert.Equal(t, 2490.0, candles[0].Close)
	assert.Equal(t, 2510.5, candles[1].Close)
}

func syntheticCandles(n int, start float64, step float64) []Candle {
	candles := make([]Candle, n)
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	price := start
	for i := range candles {
		candles[i] = Candle{Date: day, Close: price, Volume: 1000}
		day = day.AddDate(0, 0, 1)
		price += step
	}
	return candles
}

func TestComputeIndicators_Uptrend(t *testing.T) {
	candles := syntheticCandles(250, 100, 1)

	ind := ComputeIndicators(candles)

	require.True(t, ind.CurrentPrice.Valid)
	assert.Equal(t, 349.0, ind.CurrentPrice.Value)

	// Rising prices sit above both moving averages
	require.True(t, ind.PriceToMA50.Valid)
	assert.Greater(t, ind.PriceToMA50.Value, 1.0)
	require.True(t, ind.PriceToMA200.Valid)
	assert.Greater(t, ind.PriceToMA200.Value, 1.0)

	// Monotonic gains have no losses, so RSI reads neutral by convention
	require.True(t, ind.RSI.Valid)
	assert.Equal(t, 50.0, ind.RSI.Value)

	// MACD positive and above its signal line in a steady uptrend
	require.True(t, ind.MACD.Valid)
	assert.Greater(t, ind.MACD.Value, 0.0)

	require.True(t, ind.VolumeChange.Valid)
	assert.InDelta(t, 1.0, ind.VolumeChange.Value, 0.001)
}

func TestComputeIndicators_ShortHistory(t *testing.T) {
	ind := ComputeIndicators(syntheticCandles(10, 100, 1))

	assert.True(t, ind.CurrentPrice.Valid)
	assert.True(t, ind.DayChange.Valid)
	// Long windows stay unset instead of being approximated
	assert.False(t, ind.MA50.Valid)
	assert.False(t, ind.MA200.Valid)
	assert.False(t, ind.MACD.Valid)
	assert.False(t, ind.RSI.Valid)
}

func TestComputeIndicators_Empty(t *testing.T) {
	ind := ComputeIndicators(nil)
	assert.False(t, ind.CurrentPrice.Valid)
}

func TestFallbackStocks(t *testing.T) {
	stocks := FallbackStocks()
	require.NotEmpty(t, stocks)
	assert.Equal(t, "RELIANCE", stocks[0].Symbol)
}
