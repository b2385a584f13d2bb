package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finzo/backend/internal/contracts"
)

func TestEngine_ScoreCommodities_ConservativeGold(t *testing.T) {
	e := newTestEngine()

	p := contracts.Profile{
		MonthlyIncome:     60000,
		MonthlyExpense:    40000,
		RiskTolerance:     3,
		InvestmentHorizon: 2,
	}
	commodities := map[string]contracts.Commodity{
		"Gold": {
			CurrentPrice: contracts.Float(72500),
			DayChange:    contracts.Float(1.5),
			Unit:         "10 grams",
		},
	}

	recs := e.ScoreCommodities(p, commodities)

	// base 5 + momentum 2 + conservative fit 3 + short horizon 2 + small
	// commodity sleeve 1
	require.Len(t, recs, 1)
	assert.Equal(t, "Gold", recs[0].Name)
	assert.Equal(t, 13.0, recs[0].Score)
	assert.Equal(t, 72500.0, recs[0].CurrentPrice)
	assert.Contains(t, recs[0].Reason, "safe haven")
}

func TestEngine_ScoreCommodities_TopN(t *testing.T) {
	e := newTestEngine()

	commodities := map[string]contracts.Commodity{
		"Gold":      {CurrentPrice: contracts.Float(72500)},
		"Silver":    {CurrentPrice: contracts.Float(91000)},
		"Crude Oil": {CurrentPrice: contracts.Float(6800)},
		"Copper":    {CurrentPrice: contracts.Float(840)},
		"Aluminium": {CurrentPrice: contracts.Float(230)},
	}

	recs := e.ScoreCommodities(moderateProfile(), commodities)

	require.Len(t, recs, 3)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
	// Precious metals lead for a moderate profile
	assert.Equal(t, "Gold", recs[0].Name)
	assert.Equal(t, "Silver", recs[1].Name)
}

func TestEngine_ScoreCommodities_AggressiveLongHorizon(t *testing.T) {
	e := newTestEngine()

	p := contracts.Profile{RiskTolerance: 9, InvestmentHorizon: 10}
	commodities := map[string]contracts.Commodity{
		"Copper": {CurrentPrice: contracts.Float(840), DayChange: contracts.Float(-2)},
	}

	recs := e.ScoreCommodities(p, commodities)

	// base 2 - momentum 1 + risk fit 2 + industrial long-term 2
	require.Len(t, recs, 1)
	assert.Equal(t, 5.0, recs[0].Score)
}

func TestCommodityRiskFitSignal(t *testing.T) {
	// Conservative band rewards gold alone; silver only earns its bonus
	// in the moderate band
	s := commodityRiskFitSignal("Gold", 2)
	require.NotNil(t, s)
	assert.Equal(t, 3.0, s.points)

	assert.Nil(t, commodityRiskFitSignal("Silver", 2))

	s = commodityRiskFitSignal("Silver", 5)
	require.NotNil(t, s)
	assert.Equal(t, 2.0, s.points)

	assert.Nil(t, commodityRiskFitSignal("Copper", 5))

	s = commodityRiskFitSignal("Copper", 9)
	require.NotNil(t, s)
	assert.Equal(t, 2.0, s.points)

	assert.Nil(t, commodityRiskFitSignal("Gold", 9))
}

func TestCommodityBaseSignal(t *testing.T) {
	assert.Equal(t, 5.0, commodityBaseSignal("Gold").points)
	assert.Equal(t, 4.0, commodityBaseSignal("Silver").points)
	assert.Equal(t, 3.0, commodityBaseSignal("Crude Oil").points)
	assert.Equal(t, 2.0, commodityBaseSignal("Zinc").points)
}
