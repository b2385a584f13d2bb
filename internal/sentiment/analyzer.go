package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/finzo/backend/internal/contracts"
)

// Financial vocabulary with strong polarity in market headlines.
var positiveTerms = []string{
	"bull", "bullish", "rally", "surge", "gain", "growth", "profit", "recovery",
	"outperform", "beat", "upgrade", "rise", "up", "positive", "strong", "strength",
	"opportunity", "upside", "momentum", "improve", "improved", "improving",
	"exceed", "exceeded", "exceeding", "boost", "boosted", "boosting",
}

var negativeTerms = []string{
	"bear", "bearish", "drop", "decline", "loss", "crash", "downgrade", "fall",
	"down", "negative", "weak", "weakness", "risk", "downside", "slow", "slowing",
	"slowed", "miss", "missed", "missing", "concern", "concerned", "concerning",
	"disappoint", "disappointed", "disappointing", "pressure", "recession", "correction",
}

// trackedSectors are the sector labels matched against article text.
var trackedSectors = []string{
	"IT", "Banking", "Finance", "Telecom", "Pharma", "Auto", "Energy",
	"Oil", "Gas", "FMCG", "Consumer", "Metal", "Insurance", "Retail",
}

// trackedSymbols are the NSE symbols looked for in article text when the
// caller has no symbol universe of its own.
var trackedSymbols = []string{
	"RELIANCE", "TCS", "HDFCBANK", "INFY", "ICICIBANK", "HINDUNILVR", "BHARTIARTL",
	"SBIN", "ITC", "LT", "AXISBANK", "BAJFINANCE", "KOTAKBANK", "ASIANPAINT", "HCLTECH",
	"MARUTI", "TITAN", "BAJAJFINSV", "ULTRACEMCO", "TECHM", "ADANIPORTS", "WIPRO",
	"SUNPHARMA", "TATASTEEL", "INDUSINDBK", "TATAMOTORS", "NTPC", "POWERGRID",
}

var wordPattern = regexp.MustCompile(`[a-z']+`)

const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05

	titleWeight   = 0.7
	contentWeight = 0.3
)

// Article is one news item to analyze. Content may be empty for
// headline-only sources.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
}

// Analyzer scores text against the financial lexicon. It is stateless
// after construction and safe for concurrent use.
type Analyzer struct {
	lexicon       map[string]float64
	symbols       []string
	symbolMatcher map[string]*regexp.Regexp
}

// NewAnalyzer builds an analyzer with the default lexicon and symbol
// universe. Pass extra symbols to widen mention detection.
func NewAnalyzer(extraSymbols ...string) *Analyzer {
	lexicon := make(map[string]float64, len(positiveTerms)+len(negativeTerms))
	for _, term := range positiveTerms {
		lexicon[term] = 2.0
	}
	for _, term := range negativeTerms {
		lexicon[term] = -2.0
	}

	symbols := append([]string{}, trackedSymbols...)
	symbols = append(symbols, extraSymbols...)

	matchers := make(map[string]*regexp.Regexp, len(symbols))
	for _, symbol := range symbols {
		matchers[symbol] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(symbol) + `\b`)
	}

	return &Analyzer{
		lexicon:       lexicon,
		symbols:       symbols,
		symbolMatcher: matchers,
	}
}

// Score returns the compound sentiment of a text in [-1, 1]. Raw lexicon
// hits are summed and squashed the same way VADER normalizes its scores.
func (a *Analyzer) Score(text string) float64 {
	var sum float64
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		sum += a.lexicon[word]
	}
	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+15)
}

// Classify buckets a compound score into the three sentiment labels
func Classify(score float64) string {
	switch {
	case score >= positiveThreshold:
		return "positive"
	case score <= negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// Analyze aggregates article sentiment into the market bundle: an overall
// average, per-sector averages for mentioned sectors, and per-stock
// averages for mentioned symbols. Titles weigh more than bodies. An empty
// article list yields the neutral bundle.
func (a *Analyzer) Analyze(articles []Article) contracts.SentimentBundle {
	if len(articles) == 0 {
		return contracts.NeutralSentiment()
	}

	var overall []float64
	sectorScores := make(map[string][]float64)
	stockScores := make(map[string][]float64)

	for _, article := range articles {
		combined := a.Score(article.Title)*titleWeight + a.Score(article.Content)*contentWeight
		overall = append(overall, combined)

		text := article.Title + " " + article.Content
		lower := strings.ToLower(text)
		for _, sector := range trackedSectors {
			if strings.Contains(lower, strings.ToLower(sector)) {
				sectorScores[sector] = append(sectorScores[sector], combined)
			}
		}
		for _, symbol := range a.symbols {
			if a.symbolMatcher[symbol].MatchString(text) {
				stockScores[symbol] = append(stockScores[symbol], combined)
			}
		}
	}

	bundle := contracts.SentimentBundle{
		OverallMarket:   entryFromScores(overall),
		SectorSentiment: make(map[string]contracts.SentimentEntry, len(sectorScores)),
		StockSentiment:  make(map[string]contracts.SentimentEntry, len(stockScores)),
	}
	bundle.OverallMarket.Mentions = 0

	for sector, scores := range sectorScores {
		bundle.SectorSentiment[sector] = entryFromScores(scores)
	}
	for symbol, scores := range stockScores {
		bundle.StockSentiment[symbol] = entryFromScores(scores)
	}

	return bundle
}

func entryFromScores(scores []float64) contracts.SentimentEntry {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := 0.0
	if len(scores) > 0 {
		avg = sum / float64(len(scores))
	}
	return contracts.SentimentEntry{
		Sentiment: Classify(avg),
		Score:     avg,
		Mentions:  len(scores),
	}
}
