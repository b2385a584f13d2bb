package contracts

import (
	"encoding/json"
	"math"
)

// RawProfile is the financial profile exactly as submitted: amounts may come
// as numbers or numeric strings, and risk/horizon may be descriptive text
// ("moderate", "5 years") or plain numbers. The Normalizer resolves it into
// a Profile exactly once; nothing downstream branches on field kind.
type RawProfile struct {
	MonthlyIncome       OptFloat  `json:"monthly_income"`
	MonthlyExpenses     OptFloat  `json:"monthly_expenses"`
	CurrentSavings      OptFloat  `json:"current_savings"`
	ExistingInvestments OptFloat  `json:"existing_investments"`
	CurrentDebt         OptFloat  `json:"current_debt"`
	InvestmentHorizon   FlexField `json:"investment_time_horizon"`
	RiskTolerance       FlexField `json:"risk_tolerance"`
}

// Profile is the canonical numeric financial profile consumed by the engine.
// RiskTolerance is always within [1,10] and InvestmentHorizon is years >= 0.
type Profile struct {
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpense      float64 `json:"monthly_expense"`
	CurrentSavings      float64 `json:"current_savings"`
	ExistingInvestments float64 `json:"existing_investments"`
	CurrentDebt         float64 `json:"current_debt"`
	InvestmentHorizon   int     `json:"investment_horizon"` // years
	RiskTolerance       int     `json:"risk_tolerance"`     // 1-10
}

// RiskCategory buckets the 1-10 risk tolerance into the three display bands
func (p Profile) RiskCategory() string {
	switch {
	case p.RiskTolerance <= 3:
		return "Conservative"
	case p.RiskTolerance <= 7:
		return "Moderate"
	default:
		return "Aggressive"
	}
}

// CapacitySummary describes how much a user can put to work each month.
type CapacitySummary struct {
	MonthlySurplus               float64 `json:"monthly_surplus"`
	DebtToIncomeRatio            float64 `json:"debt_to_income_ratio"` // +Inf when income is zero, null on the wire
	NetWorth                     float64 `json:"net_worth"`
	EmergencyFundRequirement     float64 `json:"emergency_fund_requirement"`
	CurrentSavingsSurplus        float64 `json:"current_savings_surplus"`
	RecommendedMonthlyInvestment float64 `json:"recommended_monthly_investment"`
	LumpSumInvestmentCapacity    float64 `json:"lump_sum_investment_capacity"`
	DebtPaymentRecommendation    float64 `json:"debt_payment_recommendation"`
}

// capacitySummaryJSON mirrors CapacitySummary with a nullable ratio so the
// infinite value survives encoding. JSON has no representation for +Inf;
// encoding/json refuses to emit it at all, which would take down every
// endpoint that returns a zero-income capacity.
type capacitySummaryJSON struct {
	MonthlySurplus               float64  `json:"monthly_surplus"`
	DebtToIncomeRatio            *float64 `json:"debt_to_income_ratio"`
	NetWorth                     float64  `json:"net_worth"`
	EmergencyFundRequirement     float64  `json:"emergency_fund_requirement"`
	CurrentSavingsSurplus        float64  `json:"current_savings_surplus"`
	RecommendedMonthlyInvestment float64  `json:"recommended_monthly_investment"`
	LumpSumInvestmentCapacity    float64  `json:"lump_sum_investment_capacity"`
	DebtPaymentRecommendation    float64  `json:"debt_payment_recommendation"`
}

// MarshalJSON writes an infinite debt-to-income ratio as null.
func (c CapacitySummary) MarshalJSON() ([]byte, error) {
	out := capacitySummaryJSON{
		MonthlySurplus:               c.MonthlySurplus,
		NetWorth:                     c.NetWorth,
		EmergencyFundRequirement:     c.EmergencyFundRequirement,
		CurrentSavingsSurplus:        c.CurrentSavingsSurplus,
		RecommendedMonthlyInvestment: c.RecommendedMonthlyInvestment,
		LumpSumInvestmentCapacity:    c.LumpSumInvestmentCapacity,
		DebtPaymentRecommendation:    c.DebtPaymentRecommendation,
	}
	if !math.IsInf(c.DebtToIncomeRatio, 0) {
		ratio := c.DebtToIncomeRatio
		out.DebtToIncomeRatio = &ratio
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a null ratio to +Inf.
func (c *CapacitySummary) UnmarshalJSON(data []byte) error {
	var in capacitySummaryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = CapacitySummary{
		MonthlySurplus:               in.MonthlySurplus,
		DebtToIncomeRatio:            math.Inf(1),
		NetWorth:                     in.NetWorth,
		EmergencyFundRequirement:     in.EmergencyFundRequirement,
		CurrentSavingsSurplus:        in.CurrentSavingsSurplus,
		RecommendedMonthlyInvestment: in.RecommendedMonthlyInvestment,
		LumpSumInvestmentCapacity:    in.LumpSumInvestmentCapacity,
		DebtPaymentRecommendation:    in.DebtPaymentRecommendation,
	}
	if in.DebtToIncomeRatio != nil {
		c.DebtToIncomeRatio = *in.DebtToIncomeRatio
	}
	return nil
}

// AssetAllocation is the recommended percentage split across asset classes.
// Equity + Debt + Commodities always sums to 100 (within rounding).
type AssetAllocation struct {
	Equity          float64         `json:"equity"`
	EquityBreakdown EquityBreakdown `json:"equity_breakdown"`
	Debt            float64         `json:"debt"`
	DebtBreakdown   DebtBreakdown   `json:"debt_breakdown"`
	Commodities     float64         `json:"commodities"`
}

// EquityBreakdown splits the equity allocation by market-cap band
type EquityBreakdown struct {
	LargeCap float64 `json:"large_cap"`
	MidCap   float64 `json:"mid_cap"`
	SmallCap float64 `json:"small_cap"`
}

// DebtBreakdown splits the debt allocation by issuer type
type DebtBreakdown struct {
	GovtBonds      float64 `json:"govt_bonds"`
	CorporateBonds float64 `json:"corporate_bonds"`
}

// Total returns the allocation sum, which should be 100 within rounding
func (a AssetAllocation) Total() float64 {
	return a.Equity + a.Debt + a.Commodities
}
