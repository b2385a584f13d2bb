package contracts

import "time"

// StockRecommendation is one ranked stock pick with its reasoning.
type StockRecommendation struct {
	Symbol                 string   `json:"symbol"`
	Name                   string   `json:"name"`
	Sector                 string   `json:"sector"` // includes cap category prefix when known
	CurrentPrice           OptFloat `json:"current_price"`
	PERatio                OptFloat `json:"pe_ratio"`
	DividendYield          OptFloat `json:"dividend_yield"`
	RecommendationStrength float64  `json:"recommendation_strength"` // 1.0-10.0
	Reason                 string   `json:"reason"`
	RawScore               float64  `json:"raw_score"`
}

// FundReturns groups a fund's trailing returns for display.
type FundReturns struct {
	OneYear   OptFloat `json:"1yr"`
	ThreeYear OptFloat `json:"3yr"`
	FiveYear  OptFloat `json:"5yr"`
}

// FundRecommendation is one ranked mutual fund pick.
type FundRecommendation struct {
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	NAV          OptFloat    `json:"nav"`
	ExpenseRatio OptFloat    `json:"expense_ratio"`
	Returns      FundReturns `json:"returns"`
	Score        float64     `json:"score"`
	Reason       string      `json:"reason"`
}

// CommodityRecommendation is one ranked commodity pick.
type CommodityRecommendation struct {
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	Unit         string  `json:"unit"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
}

// SIPRecommendation is one ranked SIP plan with a suggested monthly amount.
type SIPRecommendation struct {
	Name            string   `json:"name"`
	RiskLevel       string   `json:"risk_level"`
	MonthlyAmount   float64  `json:"monthly_amount"`
	MinInvestment   OptFloat `json:"min_investment"`
	ExpectedReturns OptFloat `json:"expected_returns"`
	TaxBenefits     string   `json:"tax_benefits"`
	Score           float64  `json:"score"`
	Reason          string   `json:"reason"`
}

// PortfolioGuidance is the coarse allocation and strategy advice shown
// alongside the ranked recommendations.
type PortfolioGuidance struct {
	AssetAllocation      map[string]string `json:"asset_allocation"`
	EquityAllocation     map[string]string `json:"equity_allocation"`
	InvestmentStrategies []string          `json:"investment_strategies"`
}

// RecommendationBundle assembles everything one scoring pass produces.
type RecommendationBundle struct {
	GeneratedAt    time.Time                 `json:"generated_at"`
	Profile        Profile                   `json:"profile"`
	Capacity       CapacitySummary           `json:"capacity"`
	Allocation     AssetAllocation           `json:"allocation"`
	Stocks         []StockRecommendation     `json:"stocks"`
	MutualFunds    []FundRecommendation      `json:"mutual_funds"`
	Commodities    []CommodityRecommendation `json:"commodities"`
	SIPs           []SIPRecommendation       `json:"sip"`
	RiskManagement []string                  `json:"risk_management"`
}
