package contracts

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacitySummary_JSONInfiniteRatio(t *testing.T) {
	summary := CapacitySummary{
		DebtToIncomeRatio:         math.Inf(1),
		DebtPaymentRecommendation: 35000,
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"debt_to_income_ratio":null`)

	var decoded CapacitySummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, math.IsInf(decoded.DebtToIncomeRatio, 1))
	assert.Equal(t, 35000.0, decoded.DebtPaymentRecommendation)
}

func TestCapacitySummary_JSONFiniteRatio(t *testing.T) {
	summary := CapacitySummary{
		MonthlySurplus:    50000,
		DebtToIncomeRatio: 0.25,
		NetWorth:          480000,
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"debt_to_income_ratio":0.25`)

	var decoded CapacitySummary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, summary, decoded)
}

func TestProfile_RiskCategory(t *testing.T) {
	assert.Equal(t, "Conservative", Profile{RiskTolerance: 2}.RiskCategory())
	assert.Equal(t, "Moderate", Profile{RiskTolerance: 5}.RiskCategory())
	assert.Equal(t, "Aggressive", Profile{RiskTolerance: 9}.RiskCategory())
}
