package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

func newTestEngine() *Engine {
	cfg := config.EngineConfig{
		StockMaxScore:   25,
		StockMinScore:   -3,
		StockScoreBoost: 1.15,
		FundamentalTopN: 25,
		StockTopN:       8,
		MutualFundTopN:  7,
		CommodityTopN:   3,
		SIPTopN:         5,
	}
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
	return New(cfg, log)
}

func moderateProfile() contracts.Profile {
	return contracts.Profile{
		MonthlyIncome:     100000,
		MonthlyExpense:    50000,
		CurrentSavings:    500000,
		InvestmentHorizon: 10,
		RiskTolerance:     5,
	}
}

func TestEngine_Capacity(t *testing.T) {
	e := newTestEngine()

	p := contracts.Profile{
		MonthlyIncome:  50000,
		MonthlyExpense: 30000,
		CurrentSavings: 100000,
		CurrentDebt:    50000,
	}

	capacity := e.Capacity(p)

	assert.Equal(t, 20000.0, capacity.MonthlySurplus)
	assert.Equal(t, 1.0, capacity.DebtToIncomeRatio)
	assert.Equal(t, 180000.0, capacity.EmergencyFundRequirement)
	assert.Equal(t, 0.0, capacity.CurrentSavingsSurplus)
	assert.Equal(t, 0.0, capacity.LumpSumInvestmentCapacity)

	// Debt to income above 0.5 flips the split toward debt repayment
	assert.Equal(t, 6000.0, capacity.RecommendedMonthlyInvestment)
	assert.Equal(t, 14000.0, capacity.DebtPaymentRecommendation)
}

func TestEngine_Capacity_LowDebt(t *testing.T) {
	e := newTestEngine()

	p := contracts.Profile{
		MonthlyIncome:  100000,
		MonthlyExpense: 60000,
		CurrentSavings: 500000,
		CurrentDebt:    20000,
	}

	capacity := e.Capacity(p)

	assert.Equal(t, 40000.0, capacity.MonthlySurplus)
	assert.Equal(t, 0.2, capacity.DebtToIncomeRatio)
	assert.Equal(t, 28000.0, capacity.RecommendedMonthlyInvestment)
	assert.Equal(t, 12000.0, capacity.DebtPaymentRecommendation)

	// 500000 savings - 360000 emergency fund, 80% investable
	assert.Equal(t, 140000.0, capacity.CurrentSavingsSurplus)
	assert.Equal(t, 112000.0, capacity.LumpSumInvestmentCapacity)
}

func TestEngine_Capacity_ZeroIncome(t *testing.T) {
	e := newTestEngine()

	capacity := e.Capacity(contracts.Profile{CurrentDebt: 10000})

	assert.True(t, math.IsInf(capacity.DebtToIncomeRatio, 1))
	// Negative figures never leak out
	assert.GreaterOrEqual(t, capacity.RecommendedMonthlyInvestment, 0.0)
	assert.GreaterOrEqual(t, capacity.DebtPaymentRecommendation, 0.0)
}

func TestEngine_Allocation(t *testing.T) {
	e := newTestEngine()

	allocation := e.Allocation(moderateProfile())

	assert.Equal(t, 65.0, allocation.Equity)
	assert.Equal(t, 30.0, allocation.Debt)
	assert.Equal(t, 5.0, allocation.Commodities)
	assert.InDelta(t, 100, allocation.Total(), 0.01)

	assert.Equal(t, 12.0, allocation.DebtBreakdown.GovtBonds)
	assert.Equal(t, 18.0, allocation.DebtBreakdown.CorporateBonds)
}

func TestEngine_Allocation_ShortHorizon(t *testing.T) {
	e := newTestEngine()

	p := moderateProfile()
	p.InvestmentHorizon = 2
	allocation := e.Allocation(p)

	// Base 55 + horizon factor 2, then scaled down by 0.7 for the short horizon
	assert.Equal(t, 39.9, allocation.Equity)
	assert.InDelta(t, 100, allocation.Total(), 0.01)
}

func TestEngine_Allocation_Extremes(t *testing.T) {
	e := newTestEngine()

	for risk := 1; risk <= 10; risk++ {
		for _, horizon := range []int{1, 2, 5, 10, 30} {
			p := contracts.Profile{RiskTolerance: risk, InvestmentHorizon: horizon}
			allocation := e.Allocation(p)

			assert.InDelta(t, 100, allocation.Total(), 0.011, "risk=%d horizon=%d", risk, horizon)
			assert.LessOrEqual(t, allocation.Equity, 90.0)
			assert.GreaterOrEqual(t, allocation.Equity, 0.0)
			assert.GreaterOrEqual(t, allocation.Debt, 0.0)
		}
	}
}

func TestEngine_NormalizeProfile(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name        string
		raw         contracts.RawProfile
		wantRisk    int
		wantHorizon int
	}{
		{
			name: "numeric fields pass through",
			raw: contracts.RawProfile{
				RiskTolerance:     contracts.FlexNumber(7),
				InvestmentHorizon: contracts.FlexNumber(3),
			},
			wantRisk:    7,
			wantHorizon: 3,
		},
		{
			name: "descriptive risk maps to scale",
			raw: contracts.RawProfile{
				RiskTolerance:     contracts.FlexText("Aggressive"),
				InvestmentHorizon: contracts.FlexText("7 years"),
			},
			wantRisk:    8,
			wantHorizon: 7,
		},
		{
			name: "horizon keywords",
			raw: contracts.RawProfile{
				RiskTolerance:     contracts.FlexText("low"),
				InvestmentHorizon: contracts.FlexText("long term"),
			},
			wantRisk:    3,
			wantHorizon: 10,
		},
		{
			name: "numeric text risk falls back to moderate",
			raw: contracts.RawProfile{
				RiskTolerance: contracts.FlexText("7"),
			},
			wantRisk:    5,
			wantHorizon: 5,
		},
		{
			name:        "missing fields default",
			raw:         contracts.RawProfile{},
			wantRisk:    5,
			wantHorizon: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, err := e.NormalizeProfile(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRisk, p.RiskTolerance)
			assert.Equal(t, tt.wantHorizon, p.InvestmentHorizon)
		})
	}
}

func TestEngine_NormalizeProfile_ClampsRisk(t *testing.T) {
	e := newTestEngine()

	p, adjustments, err := e.NormalizeProfile(contracts.RawProfile{
		RiskTolerance: contracts.FlexNumber(15),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, p.RiskTolerance)
	require.Len(t, adjustments, 1)
	assert.Contains(t, adjustments[0], "adjusted")
}

func TestEngine_NormalizeProfile_NegativeAmount(t *testing.T) {
	e := newTestEngine()

	_, _, err := e.NormalizeProfile(contracts.RawProfile{
		MonthlyIncome: contracts.Float(-100),
	})
	require.Error(t, err)
	assert.True(t, contracts.IsInvalidProfile(err))
}

func TestEngine_Recommend_EmptySnapshot(t *testing.T) {
	e := newTestEngine()

	raw := contracts.RawProfile{
		MonthlyIncome:   contracts.Float(80000),
		MonthlyExpenses: contracts.Float(40000),
	}
	bundle, err := e.Recommend(raw, &contracts.MarketSnapshot{})
	require.NoError(t, err)

	// Empty data yields empty lists, never an error
	assert.Empty(t, bundle.Stocks)
	assert.Empty(t, bundle.MutualFunds)
	assert.Empty(t, bundle.Commodities)
	assert.Empty(t, bundle.SIPs)
	assert.NotEmpty(t, bundle.RiskManagement)
	assert.InDelta(t, 100, bundle.Allocation.Total(), 0.011)
}

func TestEngine_RiskManagementTips(t *testing.T) {
	e := newTestEngine()

	p := contracts.Profile{
		MonthlyIncome:     50000,
		MonthlyExpense:    45000,
		CurrentDebt:       400000,
		InvestmentHorizon: 2,
		RiskTolerance:     2,
	}
	tips := e.RiskManagementTips(p)

	assert.Contains(t, tips, "Your debt level is high. Consider prioritizing debt reduction before increasing investments.")
	assert.Contains(t, tips, "Your savings rate is low. Try to increase it to at least 20% of income for long-term financial security.")
	assert.Contains(t, tips, "For short-term goals, prioritize capital preservation over returns. Avoid high-risk investments.")
	assert.Contains(t, tips, "With your conservative risk profile, focus on capital preservation with larger allocation to debt and high-quality large-cap stocks.")
}

func TestEngine_RiskManagementTips_HealthyFinances(t *testing.T) {
	e := newTestEngine()

	p := contracts.Profile{
		MonthlyIncome:     100000,
		MonthlyExpense:    50000,
		CurrentDebt:       0,
		InvestmentHorizon: 10,
		RiskTolerance:     8,
	}
	tips := e.RiskManagementTips(p)

	for _, tip := range tips {
		assert.NotContains(t, tip, "debt level is high")
		assert.NotContains(t, tip, "savings rate is low")
	}
	assert.Contains(t, tips, "For long-term goals (7+ years), equity exposure can be higher as you have time to ride out market fluctuations.")
	assert.Contains(t, tips, "Set strict stop-loss limits for high-risk investments to prevent major losses.")
}

func TestEngine_PortfolioGuidance(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name       string
		risk       int
		horizon    int
		wantEquity string
		wantLarge  string
	}{
		{"conservative", 2, 3, "30%", "70%"},
		{"moderate", 5, 5, "45%", "50%"},
		{"aggressive", 9, 10, "83%", "30%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guidance := e.PortfolioGuidance(contracts.Profile{
				RiskTolerance:     tt.risk,
				InvestmentHorizon: tt.horizon,
			})
			assert.Equal(t, tt.wantEquity, guidance.AssetAllocation["Equity"])
			assert.Equal(t, tt.wantLarge, guidance.EquityAllocation["Large Cap"])
			assert.GreaterOrEqual(t, len(guidance.InvestmentStrategies), 5)
		})
	}
}

func TestEngine_ScorersDeterministic(t *testing.T) {
	e := newTestEngine()
	p := moderateProfile()

	technical := map[string]contracts.TechnicalIndicators{
		"RELIANCE": {CurrentPrice: contracts.Float(2500), RSI: contracts.Float(45)},
		"INFY":     {CurrentPrice: contracts.Float(1600), RSI: contracts.Float(62)},
	}
	fundamental := map[string]contracts.Fundamentals{
		"RELIANCE": {Name: "Reliance Industries", Sector: "Energy", PERatio: contracts.Float(12), ROE: contracts.Float(22)},
		"INFY":     {Name: "Infosys", Sector: "Information Technology", PERatio: contracts.Float(24), ROE: contracts.Float(30)},
	}
	funds := map[string]contracts.MutualFund{
		"120503": {Name: "Axis Bluechip Fund", Category: "Equity", RiskRating: contracts.Float(5), ThreeYearReturn: contracts.Float(14), FiveYearReturn: contracts.Float(13)},
		"100001": {Name: "Quantum Liquid Fund", Category: "Debt", RiskLevel: "Low", OneYearReturn: contracts.Float(7)},
	}
	commodities := map[string]contracts.Commodity{
		"Gold":   {CurrentPrice: contracts.Float(72500), DayChange: contracts.Float(1.5)},
		"Silver": {CurrentPrice: contracts.Float(91000), DayChange: contracts.Float(-0.4)},
		"Copper": {CurrentPrice: contracts.Float(840)},
	}

	// Each scorer is a pure function of its inputs; repeated calls with
	// the same profile and market data must agree in every field
	assert.Equal(t, e.ScoreStocks(p, technical, fundamental, contracts.NeutralSentiment()),
		e.ScoreStocks(p, technical, fundamental, contracts.NeutralSentiment()))
	assert.Equal(t, e.ScoreMutualFunds(p, funds), e.ScoreMutualFunds(p, funds))
	assert.Equal(t, e.ScoreCommodities(p, commodities), e.ScoreCommodities(p, commodities))
	assert.Equal(t, e.ScoreSIPs(p, defaultSIPPlans()), e.ScoreSIPs(p, defaultSIPPlans()))
	assert.Equal(t, e.Capacity(p), e.Capacity(p))
	assert.Equal(t, e.Allocation(p), e.Allocation(p))
}
