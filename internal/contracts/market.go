package contracts

import "time"

// TechnicalIndicators holds per-symbol price and momentum data. Every field
// is optional; an absent indicator contributes nothing to scoring.
type TechnicalIndicators struct {
	CurrentPrice      OptFloat `json:"current_price"`
	DayChange         OptFloat `json:"day_change"` // percent
	Volume            OptFloat `json:"volume"`
	MA50              OptFloat `json:"ma50"`
	MA200             OptFloat `json:"ma200"`
	PriceToMA50       OptFloat `json:"price_to_ma50"`
	PriceToMA200      OptFloat `json:"price_to_ma200"`
	RSI               OptFloat `json:"rsi"`
	Volatility        OptFloat `json:"volatility"` // annualized percent
	MACD              OptFloat `json:"macd"`
	MACDSignal        OptFloat `json:"macd_signal"`
	MACDHistogram     OptFloat `json:"macd_histogram"`
	MACDHistogramPrev OptFloat `json:"macd_histogram_prev"`
	VolumeChange      OptFloat `json:"volume_change"` // multiple of average
}

// QuarterlyResult is one row of a company's quarterly results table,
// in the order the source published them (not necessarily chronological).
type QuarterlyResult struct {
	Period    string   `json:"period"`
	NetProfit OptFloat `json:"net_profit"`
}

// Fundamentals holds per-symbol balance-sheet and valuation data.
type Fundamentals struct {
	Name             string            `json:"name"`
	Sector           string            `json:"sector"`
	MarketCap        OptFloat          `json:"market_cap"` // rupees
	PERatio          OptFloat          `json:"pe_ratio"`
	IndustryPE       OptFloat          `json:"industry_pe"`
	EPS              OptFloat          `json:"eps"`
	BookValue        OptFloat          `json:"book_value"`
	DebtToEquity     OptFloat          `json:"debt_to_equity"`
	ROE              OptFloat          `json:"roe"`
	ROCE             OptFloat          `json:"roce"`
	DividendYield    OptFloat          `json:"dividend_yield"`
	ProfitGrowth     OptFloat          `json:"profit_growth"` // percent
	QuarterlyResults []QuarterlyResult `json:"quarterly_results,omitempty"`
}

// MutualFund holds one fund record from the NAV feed.
type MutualFund struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"` // Equity, Debt, Hybrid, Liquid
	NAV             OptFloat `json:"nav"`
	RiskLevel       string   `json:"risk_level,omitempty"`  // Very Low .. Very High
	RiskRating      OptFloat `json:"risk_rating,omitempty"` // numeric 1-10 alternative
	OneYearReturn   OptFloat `json:"one_year_return"`
	ThreeYearReturn OptFloat `json:"three_year_return"`
	FiveYearReturn  OptFloat `json:"five_year_return"`
	ExpenseRatio    OptFloat `json:"expense_ratio"`
	AUMCrores       OptFloat `json:"aum_crores"`
}

// Commodity holds one commodity spot quote.
type Commodity struct {
	CurrentPrice OptFloat `json:"current_price"`
	DayChange    OptFloat `json:"day_change"` // percent
	Unit         string   `json:"unit"`
}

// SIPPlan is a systematic investment plan template.
type SIPPlan struct {
	Name                string    `json:"name"`
	Category            string    `json:"category"`
	RiskLevel           string    `json:"risk_level,omitempty"`
	RiskRating          OptFloat  `json:"risk_rating,omitempty"`
	MinInvestment       OptFloat  `json:"min_investment"`
	RecommendedDuration FlexField `json:"recommended_duration"` // years, or "5-10 years"
	ExpectedReturns     OptFloat  `json:"expected_returns"`
	TaxBenefits         string    `json:"tax_benefits,omitempty"`
	Description         string    `json:"description,omitempty"`
	SuitableFor         string    `json:"suitable_for,omitempty"`
}

// SentimentEntry is an aggregated sentiment label with its score.
type SentimentEntry struct {
	Sentiment string  `json:"sentiment"` // positive, neutral, negative
	Score     float64 `json:"score"`     // compound score
	Mentions  int     `json:"mentions,omitempty"`
}

// SentimentBundle aggregates market, sector, and per-stock sentiment.
type SentimentBundle struct {
	OverallMarket   SentimentEntry            `json:"overall_market"`
	SectorSentiment map[string]SentimentEntry `json:"sector_sentiment"`
	StockSentiment  map[string]SentimentEntry `json:"stock_sentiment"`
}

// Neutral returns an empty bundle with neutral overall sentiment, used when
// no headlines could be analyzed.
func NeutralSentiment() SentimentBundle {
	return SentimentBundle{
		OverallMarket:   SentimentEntry{Sentiment: "neutral", Score: 0},
		SectorSentiment: map[string]SentimentEntry{},
		StockSentiment:  map[string]SentimentEntry{},
	}
}

// MarketSnapshot is the immutable bundle of collected market data handed to
// the recommendation engine. Scorers read it and never mutate it; a new
// snapshot replaces the old one wholesale.
type MarketSnapshot struct {
	TakenAt     time.Time                      `json:"taken_at"`
	Technical   map[string]TechnicalIndicators `json:"technical"`
	Fundamental map[string]Fundamentals        `json:"fundamental"`
	MutualFunds map[string]MutualFund          `json:"mutual_funds"`
	Commodities map[string]Commodity           `json:"commodities"`
	SIPPlans    map[string]SIPPlan             `json:"sip_plans"`
	Sentiment   SentimentBundle                `json:"sentiment"`
}

// SymbolCount returns the number of symbols with both technical and
// fundamental data, the population the stock scorer works from.
func (s *MarketSnapshot) SymbolCount() int {
	n := 0
	for symbol := range s.Technical {
		if _, ok := s.Fundamental[symbol]; ok {
			n++
		}
	}
	return n
}
