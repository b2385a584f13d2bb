package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/finzo/backend/internal/contracts"
)

// stockCandidate accumulates scores for one symbol across both phases.
// It lives only for the duration of a single scoring pass.
type stockCandidate struct {
	symbol      string
	name        string
	sector      string
	capCategory string
	card        scorecard
}

// ScoreStocks runs the two-phase filter-then-rank pipeline: every symbol
// with both technical and fundamental data is scored on fundamentals, the
// top candidates move on to technical scoring, and the best of those become
// recommendations with a normalized 1-10 strength. Missing or unparsable
// fields skip their signal; a class with no usable candidates returns an
// empty list, never an error.
func (e *Engine) ScoreStocks(
	p contracts.Profile,
	technical map[string]contracts.TechnicalIndicators,
	fundamental map[string]contracts.Fundamentals,
	sentiment contracts.SentimentBundle,
) []contracts.StockRecommendation {
	// Candidates need both data sets. Symbols are walked in sorted order so
	// ties rank deterministically.
	symbols := make([]string, 0, len(technical))
	for symbol := range technical {
		if _, ok := fundamental[symbol]; ok {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	if len(symbols) == 0 {
		e.logger.Warn("No stocks with both technical and fundamental data")
		return []contracts.StockRecommendation{}
	}

	// Phase 1: fundamental scoring
	candidates := make([]*stockCandidate, 0, len(symbols))
	for _, symbol := range symbols {
		candidates = append(candidates, e.scoreFundamentals(symbol, fundamental[symbol], p, sentiment))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].card.score > candidates[j].card.score
	})
	if len(candidates) > e.cfg.FundamentalTopN {
		candidates = candidates[:e.cfg.FundamentalTopN]
	}

	// Phase 2: technical scoring on the fundamental survivors
	for _, c := range candidates {
		e.scoreTechnicals(c, technical[c.symbol], p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].card.score > candidates[j].card.score
	})
	if len(candidates) > e.cfg.StockTopN {
		candidates = candidates[:e.cfg.StockTopN]
	}

	recommendations := make([]contracts.StockRecommendation, 0, len(candidates))
	for _, c := range candidates {
		fund := fundamental[c.symbol]
		tech := technical[c.symbol]

		sectorInfo := c.sector
		if sectorInfo == "" || sectorInfo == "Unknown" {
			sectorInfo = "Diverse Sector"
		}
		if c.capCategory != "Unknown" {
			sectorInfo = fmt.Sprintf("%s - %s", c.capCategory, sectorInfo)
		}

		recommendations = append(recommendations, contracts.StockRecommendation{
			Symbol:                 c.symbol,
			Name:                   c.name,
			Sector:                 sectorInfo,
			CurrentPrice:           tech.CurrentPrice,
			PERatio:                fund.PERatio,
			DividendYield:          fund.DividendYield,
			RecommendationStrength: e.normalizeStrength(c.card.score),
			Reason:                 c.card.reasonText(3),
			RawScore:               c.card.score,
		})
	}

	e.logger.WithField("count", len(recommendations)).Info("Generated stock recommendations")
	return recommendations
}

// scoreFundamentals builds a candidate from valuation and balance-sheet
// signals. Each rule contributes only when its inputs parse.
func (e *Engine) scoreFundamentals(
	symbol string,
	fund contracts.Fundamentals,
	p contracts.Profile,
	sentiment contracts.SentimentBundle,
) *stockCandidate {
	c := &stockCandidate{
		symbol:      symbol,
		name:        fund.Name,
		sector:      fund.Sector,
		capCategory: "Unknown",
	}
	if c.name == "" {
		c.name = symbol
	}
	if c.sector == "" {
		c.sector = "Unknown"
	}

	c.card.apply(
		peRatioSignal(fund.PERatio),
		industryPESignal(fund.PERatio, fund.IndustryPE),
		roeSignal(fund.ROE),
		debtToEquitySignal(fund.DebtToEquity),
		epsSignal(fund.EPS),
		dividendYieldSignal(fund.DividendYield),
		profitGrowthSignal(effectiveProfitGrowth(fund)),
	)

	capSignal, capCategory := marketCapSignal(fund.MarketCap, p.RiskTolerance)
	c.capCategory = capCategory
	c.card.apply(capSignal)

	c.card.apply(sectorSentimentSignal(c.sector, sentiment.SectorSentiment))

	// Complete-data bonus
	if fund.PERatio.Valid && fund.ROE.Valid && fund.DebtToEquity.Valid && fund.EPS.Valid {
		c.card.add(1, "Complete fundamental analysis available")
	}

	return c
}

// scoreTechnicals layers price/volume/momentum signals on top of the
// candidate's fundamental score.
func (e *Engine) scoreTechnicals(c *stockCandidate, tech contracts.TechnicalIndicators, p contracts.Profile) {
	c.card.apply(
		ma50Signal(tech.PriceToMA50),
		ma200Signal(tech.PriceToMA200),
		rsiSignal(tech.RSI),
		macdSignal(tech),
		macdCrossoverSignal(tech),
		volumeChangeSignal(tech.VolumeChange),
		dayChangeSignal(tech.DayChange),
		volatilitySignal(tech.Volatility, p.RiskTolerance),
	)
}

// normalizeStrength maps a raw score onto the 1-10 display scale using the
// calibrated min/max/boost constants from config.
func (e *Engine) normalizeStrength(score float64) float64 {
	normalized := (score - e.cfg.StockMinScore) / (e.cfg.StockMaxScore - e.cfg.StockMinScore) * 10
	normalized *= e.cfg.StockScoreBoost
	normalized = math.Max(1, math.Min(10, normalized))
	return math.Round(normalized*10) / 10
}

// Fundamental signals

func peRatioSignal(pe contracts.OptFloat) *signal {
	if !pe.Valid {
		return nil
	}
	switch {
	case pe.Value > 5 && pe.Value < 20:
		return sig(4, fmt.Sprintf("Attractive P/E ratio of %.2f", pe.Value))
	case pe.Value >= 20 && pe.Value < 30:
		return sig(2, fmt.Sprintf("Reasonable P/E ratio of %.2f", pe.Value))
	case pe.Value >= 30 && pe.Value < 40:
		return sig(1, fmt.Sprintf("P/E ratio of %.2f", pe.Value))
	}
	return nil
}

func industryPESignal(pe, industryPE contracts.OptFloat) *signal {
	if !pe.Valid || !industryPE.Valid {
		return nil
	}
	switch {
	case pe.Value < industryPE.Value*0.8:
		return sig(4, fmt.Sprintf("P/E ratio significantly below industry average (%.2f vs %.2f)", pe.Value, industryPE.Value))
	case pe.Value < industryPE.Value:
		return sig(2, fmt.Sprintf("P/E ratio below industry average (%.2f vs %.2f)", pe.Value, industryPE.Value))
	}
	return nil
}

func roeSignal(roe contracts.OptFloat) *signal {
	if !roe.Valid {
		return nil
	}
	switch {
	case roe.Value > 20:
		return sig(5, fmt.Sprintf("Excellent ROE of %.2f%%", roe.Value))
	case roe.Value > 15:
		return sig(4, fmt.Sprintf("Strong ROE of %.2f%%", roe.Value))
	case roe.Value > 10:
		return sig(3, fmt.Sprintf("Good ROE of %.2f%%", roe.Value))
	case roe.Value > 5:
		return sig(1, fmt.Sprintf("Positive ROE of %.2f%%", roe.Value))
	}
	return nil
}

func debtToEquitySignal(de contracts.OptFloat) *signal {
	if !de.Valid {
		return nil
	}
	switch {
	case de.Value < 0.3:
		return sig(4, fmt.Sprintf("Exceptionally low debt-to-equity ratio of %.2f", de.Value))
	case de.Value < 0.6:
		return sig(3, fmt.Sprintf("Very low debt-to-equity ratio of %.2f", de.Value))
	case de.Value < 1:
		return sig(2, fmt.Sprintf("Good debt-to-equity ratio of %.2f", de.Value))
	case de.Value < 1.5:
		return sig(1, fmt.Sprintf("Reasonable debt-to-equity ratio of %.2f", de.Value))
	}
	return nil
}

func epsSignal(eps contracts.OptFloat) *signal {
	if !eps.Valid {
		return nil
	}
	switch {
	case eps.Value > 50:
		return sig(4, fmt.Sprintf("High EPS of ₹%.2f", eps.Value))
	case eps.Value > 20:
		return sig(3, fmt.Sprintf("Good EPS of ₹%.2f", eps.Value))
	case eps.Value > 10:
		return sig(2, fmt.Sprintf("Positive EPS of ₹%.2f", eps.Value))
	}
	return nil
}

func dividendYieldSignal(dy contracts.OptFloat) *signal {
	if !dy.Valid {
		return nil
	}
	switch {
	case dy.Value > 4:
		return sig(3, fmt.Sprintf("Excellent dividend yield of %.2f%%", dy.Value))
	case dy.Value > 2:
		return sig(2, fmt.Sprintf("Good dividend yield of %.2f%%", dy.Value))
	case dy.Value > 1:
		return sig(1, fmt.Sprintf("Positive dividend yield of %.2f%%", dy.Value))
	}
	return nil
}

// effectiveProfitGrowth prefers the published profit_growth figure and
// otherwise derives quarter-over-quarter growth from the first two entries
// of the quarterly results, in the order the source published them.
func effectiveProfitGrowth(fund contracts.Fundamentals) contracts.OptFloat {
	if fund.ProfitGrowth.Valid {
		return fund.ProfitGrowth
	}
	if len(fund.QuarterlyResults) < 2 {
		return contracts.None()
	}
	latest := fund.QuarterlyResults[0].NetProfit
	prior := fund.QuarterlyResults[1].NetProfit
	if !latest.Valid || !prior.Valid || prior.Value == 0 {
		return contracts.None()
	}
	growth := (latest.Value - prior.Value) / math.Abs(prior.Value) * 100
	return contracts.Float(growth)
}

func profitGrowthSignal(growth contracts.OptFloat) *signal {
	if !growth.Valid {
		return nil
	}
	switch {
	case growth.Value > 30:
		return sig(5, fmt.Sprintf("Exceptional profit growth of %.2f%%", growth.Value))
	case growth.Value > 20:
		return sig(4, fmt.Sprintf("Strong profit growth of %.2f%%", growth.Value))
	case growth.Value > 10:
		return sig(3, fmt.Sprintf("Good profit growth of %.2f%%", growth.Value))
	case growth.Value > 5:
		return sig(1, fmt.Sprintf("Positive profit growth of %.2f%%", growth.Value))
	}
	return nil
}

// marketCapSignal categorizes by size (in crores) and rewards alignment
// between the cap band and the investor's risk tolerance.
func marketCapSignal(marketCap contracts.OptFloat, risk int) (*signal, string) {
	if !marketCap.Valid {
		return nil, "Unknown"
	}

	crores := marketCap.Value / 1e7
	switch {
	case crores > 50000:
		if risk <= 4 {
			return sig(3, "Large cap stock aligns with your lower risk profile"), "Large Cap"
		}
		return nil, "Large Cap"
	case crores > 5000:
		if risk > 4 && risk < 8 {
			return sig(3, "Mid cap stock aligns with your moderate risk profile"), "Mid Cap"
		}
		return nil, "Mid Cap"
	default:
		if risk >= 7 {
			return sig(3, "Small cap stock aligns with your higher risk profile"), "Small Cap"
		}
		return nil, "Small Cap"
	}
}

func sectorSentimentSignal(sector string, sectorSentiment map[string]contracts.SentimentEntry) *signal {
	entry, ok := sectorSentiment[sector]
	if !ok {
		return nil
	}
	switch entry.Sentiment {
	case "positive":
		return sig(2, fmt.Sprintf("Positive sentiment for %s sector", sector))
	case "neutral":
		return sig(1, fmt.Sprintf("Neutral sentiment for %s sector", sector))
	}
	return nil
}

// Technical signals

func ma50Signal(ratio contracts.OptFloat) *signal {
	if !ratio.Valid {
		return nil
	}
	switch {
	case ratio.Value > 1.1:
		return sig(3, "Very strong bullish trend (price 10% above 50-day MA)")
	case ratio.Value > 1.05:
		return sig(2, "Strong bullish trend (price 5% above 50-day MA)")
	case ratio.Value > 1:
		return sig(1, "Price above 50-day moving average")
	}
	return nil
}

func ma200Signal(ratio contracts.OptFloat) *signal {
	if !ratio.Valid {
		return nil
	}
	switch {
	case ratio.Value > 1.2:
		return sig(4, "Exceptional long-term uptrend (price 20% above 200-day MA)")
	case ratio.Value > 1.1:
		return sig(3, "Strong long-term uptrend (price 10% above 200-day MA)")
	case ratio.Value > 1:
		return sig(2, "Price above 200-day moving average (bullish)")
	}
	return nil
}

func rsiSignal(rsi contracts.OptFloat) *signal {
	if !rsi.Valid {
		return nil
	}
	v := rsi.Value
	switch {
	case v >= 45 && v <= 55:
		return sig(2, fmt.Sprintf("RSI in optimal neutral zone (%.2f)", v))
	case v > 55 && v < 65:
		return sig(3, fmt.Sprintf("RSI showing strength without overheating (%.2f)", v))
	case v >= 65 && v < 70:
		return sig(1, fmt.Sprintf("RSI showing strength (%.2f)", v))
	case v >= 70:
		return sig(-1, fmt.Sprintf("RSI in overbought territory (%.2f)", v))
	case v > 30 && v <= 40:
		return sig(1, fmt.Sprintf("RSI in potential accumulation zone (%.2f)", v))
	case v <= 30:
		return sig(0.5, fmt.Sprintf("RSI in oversold territory - potential bounce (%.2f)", v))
	}
	return nil
}

// macdSignal needs both MACD and its signal line; the histogram defaults
// to zero when absent.
func macdSignal(tech contracts.TechnicalIndicators) *signal {
	if !tech.MACD.Valid || !tech.MACDSignal.Valid {
		return nil
	}
	macd := tech.MACD.Value
	signalLine := tech.MACDSignal.Value
	histogram := tech.MACDHistogram.Or(0)

	switch {
	case macd > 0 && macd > signalLine && histogram > 0:
		return sig(3, "Strong MACD bullish signal (positive and above signal line)")
	case macd > signalLine:
		return sig(2, "MACD above signal line (bullish)")
	default:
		return sig(-0.5, "MACD below signal line (bearish)")
	}
}

// macdCrossoverSignal rewards a histogram flip from negative to positive,
// in addition to the base MACD signal.
func macdCrossoverSignal(tech contracts.TechnicalIndicators) *signal {
	if !tech.MACD.Valid || !tech.MACDSignal.Valid {
		return nil
	}
	if tech.MACDHistogram.Or(0) > 0 && tech.MACDHistogramPrev.Or(0) < 0 {
		return sig(3, "Recent MACD bullish crossover (strong buy signal)")
	}
	return nil
}

func volumeChangeSignal(change contracts.OptFloat) *signal {
	if !change.Valid {
		return nil
	}
	switch {
	case change.Value > 2:
		return sig(2, fmt.Sprintf("Very high trading volume (%.2fx average)", change.Value))
	case change.Value > 1.5:
		return sig(1, fmt.Sprintf("Higher than average volume (%.2fx)", change.Value))
	}
	return nil
}

func dayChangeSignal(change contracts.OptFloat) *signal {
	if !change.Valid {
		return nil
	}
	switch {
	case change.Value > 3:
		return sig(2, fmt.Sprintf("Strong positive momentum (up %.2f%% today)", change.Value))
	case change.Value > 1:
		return sig(1, fmt.Sprintf("Positive momentum (up %.2f%% today)", change.Value))
	}
	return nil
}

// volatilitySignal rewards volatility aligned with the investor's risk band
func volatilitySignal(volatility contracts.OptFloat, risk int) *signal {
	if !volatility.Valid {
		return nil
	}
	v := volatility.Value
	switch {
	case risk >= 8 && v > 30:
		return sig(1, fmt.Sprintf("High volatility aligned with your risk profile (%.2f%%)", v))
	case risk >= 4 && risk <= 7 && v >= 15 && v <= 30:
		return sig(1, fmt.Sprintf("Moderate volatility aligned with your risk profile (%.2f%%)", v))
	case risk <= 3 && v < 15:
		return sig(1, fmt.Sprintf("Low volatility aligned with your risk profile (%.2f%%)", v))
	}
	return nil
}
