package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finzo/backend/internal/contracts"
)

func defaultSIPPlans() map[string]contracts.SIPPlan {
	return map[string]contracts.SIPPlan{
		"Equity SIP": {
			Name:                "Equity SIP",
			RiskLevel:           "High",
			MinInvestment:       contracts.Float(1000),
			RecommendedDuration: contracts.FlexNumber(5),
			ExpectedReturns:     contracts.Float(12),
		},
		"Debt SIP": {
			Name:                "Debt SIP",
			RiskLevel:           "Low",
			MinInvestment:       contracts.Float(1000),
			RecommendedDuration: contracts.FlexNumber(3),
			ExpectedReturns:     contracts.Float(7),
		},
		"Balanced SIP": {
			Name:                "Balanced SIP",
			RiskLevel:           "Medium",
			MinInvestment:       contracts.Float(1000),
			RecommendedDuration: contracts.FlexNumber(4),
			ExpectedReturns:     contracts.Float(9),
		},
		"ELSS SIP": {
			Name:                "ELSS SIP",
			RiskLevel:           "High",
			MinInvestment:       contracts.Float(500),
			RecommendedDuration: contracts.FlexNumber(3),
			ExpectedReturns:     contracts.Float(12),
			TaxBenefits:         "Section 80C",
		},
		"Liquid SIP": {
			Name:                "Liquid SIP",
			RiskLevel:           "Very Low",
			MinInvestment:       contracts.Float(500),
			RecommendedDuration: contracts.FlexNumber(1),
			ExpectedReturns:     contracts.Float(5),
		},
	}
}

func TestEngine_ScoreSIPs(t *testing.T) {
	e := newTestEngine()

	recs := e.ScoreSIPs(moderateProfile(), defaultSIPPlans())

	require.Len(t, recs, 5)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}

	// Monthly amounts land on round hundreds at or above the plan minimum
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.MonthlyAmount, rec.MinInvestment.Or(0))
		overMinimum := rec.MonthlyAmount > rec.MinInvestment.Or(0)
		if overMinimum {
			assert.Zero(t, int(rec.MonthlyAmount)%100, "amount %v not a round hundred", rec.MonthlyAmount)
		}
	}
}

func TestEngine_ScoreSIPs_BalancedWinsForModerate(t *testing.T) {
	e := newTestEngine()

	recs := e.ScoreSIPs(moderateProfile(), defaultSIPPlans())

	require.NotEmpty(t, recs)
	assert.Equal(t, "Balanced SIP", recs[0].Name)
}

func TestEngine_ScoreSIPs_MonthlyFloorsAtMinimum(t *testing.T) {
	e := newTestEngine()

	// No surplus at all, so the proportional amount would be zero
	p := contracts.Profile{
		MonthlyIncome:     30000,
		MonthlyExpense:    30000,
		RiskTolerance:     5,
		InvestmentHorizon: 5,
	}

	plans := map[string]contracts.SIPPlan{
		"Balanced SIP": {
			Name:                "Balanced SIP",
			RiskLevel:           "Medium",
			MinInvestment:       contracts.Float(1000),
			RecommendedDuration: contracts.FlexNumber(4),
		},
	}

	recs := e.ScoreSIPs(p, plans)

	require.Len(t, recs, 1)
	assert.Equal(t, 1000.0, recs[0].MonthlyAmount)
}

func TestSIPDurationSignal(t *testing.T) {
	tests := []struct {
		name     string
		duration contracts.FlexField
		horizon  int
		want     float64
	}{
		{"numeric fits", contracts.FlexNumber(5), 7, 3},
		{"numeric too long", contracts.FlexNumber(5), 3, -2},
		{"range string fits lower bound", contracts.FlexText("5-10 years"), 5, 3},
		{"range string too long", contracts.FlexText("5-10 years"), 4, -2},
		{"plain text years", contracts.FlexText("3 years"), 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sipDurationSignal(tt.duration, tt.horizon)
			require.NotNil(t, s)
			assert.Equal(t, tt.want, s.points)
		})
	}

	assert.Nil(t, sipDurationSignal(contracts.FlexField{}, 5))
}

func TestSIPNameSignals(t *testing.T) {
	growthHeavy := contracts.AssetAllocation{Equity: 65, Debt: 30, Commodities: 5}

	signals := sipNameSignals("Equity SIP", 5, growthHeavy)
	require.Len(t, signals, 1)
	assert.Equal(t, 2.0, signals[0].points)

	signals = sipNameSignals("ELSS SIP", 7, growthHeavy)
	require.Len(t, signals, 1)
	assert.Equal(t, 2.0, signals[0].points)

	signals = sipNameSignals("ELSS SIP", 3, growthHeavy)
	require.Len(t, signals, 1)
	assert.Equal(t, -1.0, signals[0].points)

	assert.Empty(t, sipNameSignals("Liquid SIP", 5, growthHeavy))
}

func TestSIPNameSignals_HybridNameCollectsEach(t *testing.T) {
	// 55% equity satisfies both the equity (>50) and balanced (30-70)
	// checks, and a name carrying both keywords earns both bonuses
	allocation := contracts.AssetAllocation{Equity: 55, Debt: 40, Commodities: 5}

	signals := sipNameSignals("Balanced Equity SIP", 5, allocation)
	require.Len(t, signals, 2)
	assert.Equal(t, 2.0, signals[0].points)
	assert.Equal(t, 3.0, signals[1].points)
}

func TestSIPRiskScore(t *testing.T) {
	score, ok := sipRiskScore(contracts.SIPPlan{RiskLevel: "Very High"})
	assert.True(t, ok)
	assert.Equal(t, 10.0, score)

	// Unrecognized label still counts as a stated risk, read as medium
	score, ok = sipRiskScore(contracts.SIPPlan{RiskLevel: "Extreme"})
	assert.True(t, ok)
	assert.Equal(t, 5.0, score)

	score, ok = sipRiskScore(contracts.SIPPlan{RiskRating: contracts.Float(7)})
	assert.True(t, ok)
	assert.Equal(t, 7.0, score)

	_, ok = sipRiskScore(contracts.SIPPlan{})
	assert.False(t, ok)
}

func TestEngine_ScoreSIPs_NoRiskInfoSkipsRiskMatch(t *testing.T) {
	e := newTestEngine()

	// A plan stating neither a risk level nor a rating gets no risk-match
	// contribution at all, instead of defaulting to a perfect match
	plans := map[string]contracts.SIPPlan{
		"Custom SIP": {Name: "Custom SIP"},
	}

	recs := e.ScoreSIPs(moderateProfile(), plans)

	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0].Score)
}

func TestSIPAffordabilitySignal(t *testing.T) {
	assert.Equal(t, 1.0, sipAffordabilitySignal(contracts.Float(1000), 5000).points)
	assert.Equal(t, -3.0, sipAffordabilitySignal(contracts.Float(10000), 5000).points)
	assert.Nil(t, sipAffordabilitySignal(contracts.Float(3000), 5000))
	assert.Nil(t, sipAffordabilitySignal(contracts.None(), 5000))
}
