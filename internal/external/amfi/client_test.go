package amfi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date

Open Ended Schemes ( Equity Scheme - Large Cap Fund )

Axis Mutual Fund

119551;INF846K01DP8;INF846K01DQ6;Axis Bluechip Fund - Regular Plan - EQUITY Growth;45.2100;28-Aug-2026
119552;INF846K01DR4;-;Axis Liquid Fund - Direct Plan - LIQUID Growth;2305.1100;28-Aug-2026

HDFC Mutual Fund

128053;INF179KC1AP1;-;HDFC Corporate BOND Fund - Growth Option;28.3600;28-Aug-2026
128054;INF179KC1AQ9;-;HDFC Mystery Scheme;bad-nav;28-Aug-2026
`

func TestParseNAVFeed(t *testing.T) {
	funds := parseNAVFeed(strings.NewReader(sampleFeed))

	require.Len(t, funds, 3)

	equity := funds["119551"]
	assert.Equal(t, "Equity", equity.Category)
	assert.Equal(t, "High", equity.RiskLevel)
	assert.Equal(t, 45.21, equity.NAV.Value)

	liquid := funds["119552"]
	assert.Equal(t, "Liquid", liquid.Category)
	assert.Equal(t, "Low", liquid.RiskLevel)

	bond := funds["128053"]
	assert.Equal(t, "Debt", bond.Category)

	// Unparsable NAV rows are dropped
	_, ok := funds["128054"]
	assert.False(t, ok)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"SBI EQUITY Fund", "Equity"},
		{"Kotak BOND Fund", "Debt"},
		{"ICICI BALANCED Advantage", "Hybrid"},
		{"UTI NIFTY INDEX Fund", "Index"},
		{"SBI Magnum GILT Fund", "Gilt"},
		{"Some Other Scheme", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, categorize(tt.name), tt.name)
	}
}

func TestSampleFunds(t *testing.T) {
	funds := SampleFunds()
	require.Len(t, funds, 2)
	assert.True(t, funds["119551"].RiskRating.Valid)
}
