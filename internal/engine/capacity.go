package engine

import (
	"math"

	"github.com/finzo/backend/internal/contracts"
)

// Capacity derives how much of the monthly surplus and savings can be put
// to work. When the debt-to-income ratio exceeds 0.5 the split flips to
// favor debt repayment over investing.
func (e *Engine) Capacity(p contracts.Profile) contracts.CapacitySummary {
	monthlySurplus := p.MonthlyIncome - p.MonthlyExpense

	debtToIncome := math.Inf(1)
	if p.MonthlyIncome > 0 {
		debtToIncome = p.CurrentDebt / p.MonthlyIncome
	}

	netWorth := p.CurrentSavings + p.ExistingInvestments - p.CurrentDebt

	// Six months of expenses stays untouched
	emergencyFund := p.MonthlyExpense * 6
	savingsSurplus := math.Max(0, p.CurrentSavings-emergencyFund)

	var monthlyInvestment, debtPayment float64
	if debtToIncome > 0.5 {
		// Debt reduction first
		monthlyInvestment = monthlySurplus * 0.3
		debtPayment = monthlySurplus * 0.7
	} else {
		monthlyInvestment = monthlySurplus * 0.7
		debtPayment = monthlySurplus * 0.3
	}

	// Keep some buffer on lump sums
	lumpSum := savingsSurplus * 0.8

	return contracts.CapacitySummary{
		MonthlySurplus:               monthlySurplus,
		DebtToIncomeRatio:            debtToIncome,
		NetWorth:                     netWorth,
		EmergencyFundRequirement:     emergencyFund,
		CurrentSavingsSurplus:        savingsSurplus,
		RecommendedMonthlyInvestment: math.Max(0, monthlyInvestment),
		LumpSumInvestmentCapacity:    math.Max(0, lumpSum),
		DebtPaymentRecommendation:    math.Max(0, debtPayment),
	}
}

// Allocation derives the target asset-class split from risk tolerance and
// horizon. Higher risk and longer horizons push equity up, capped at 90%;
// commodities always reserve 5% before the final renormalization to 100%.
func (e *Engine) Allocation(p contracts.Profile) contracts.AssetAllocation {
	risk := float64(p.RiskTolerance)
	horizon := float64(p.InvestmentHorizon)

	equityBase := math.Min(30+risk*5, 90)

	horizonFactor := math.Min(horizon/2, 5)
	equity := math.Min(equityBase+horizonFactor*2, 90)

	debt := 100 - equity - 5

	// Very short horizons pull equity down hard
	if p.InvestmentHorizon < 3 {
		equity = math.Max(equity*0.7, 20)
		debt = 100 - equity - 5
	}

	commodities := 5.0

	// Renormalize so the three classes sum to exactly 100
	total := equity + debt + commodities
	equity = equity / total * 100
	debt = debt / total * 100
	commodities = commodities / total * 100

	largeCap := equity * (0.7 - risk/30)
	midCap := equity * (0.2 + risk/60)
	smallCap := equity * (0.1 + risk/60)

	return contracts.AssetAllocation{
		Equity: round2(equity),
		EquityBreakdown: contracts.EquityBreakdown{
			LargeCap: round2(largeCap),
			MidCap:   round2(midCap),
			SmallCap: round2(smallCap),
		},
		Debt: round2(debt),
		DebtBreakdown: contracts.DebtBreakdown{
			GovtBonds:      round2(debt * 0.4),
			CorporateBonds: round2(debt * 0.6),
		},
		Commodities: round2(commodities),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
