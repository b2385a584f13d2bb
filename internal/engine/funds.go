package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/finzo/backend/internal/contracts"
)

// riskLevelScores maps the textual risk labels on fund factsheets to the
// 1-10 numeric scale the matcher works on.
var riskLevelScores = map[string]float64{
	"Very Low":  1,
	"Low":       3,
	"Medium":    5,
	"High":      8,
	"Very High": 10,
}

// fundRiskScore resolves a fund's risk to the numeric scale, preferring
// the numeric rating and falling back to the textual level. Unknown
// labels land at medium.
func fundRiskScore(riskRating contracts.OptFloat, riskLevel string) float64 {
	if riskRating.Valid {
		return riskRating.Value
	}
	if score, ok := riskLevelScores[riskLevel]; ok {
		return score
	}
	return 5
}

// ScoreMutualFunds ranks funds by risk fit, horizon-appropriate returns,
// category alignment with the target allocation, and cost.
func (e *Engine) ScoreMutualFunds(p contracts.Profile, funds map[string]contracts.MutualFund) []contracts.FundRecommendation {
	if len(funds) == 0 {
		e.logger.Warn("No mutual fund data available")
		return []contracts.FundRecommendation{}
	}

	allocation := e.Allocation(p)

	codes := make([]string, 0, len(funds))
	for code := range funds {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	type fundCandidate struct {
		code string
		fund contracts.MutualFund
		card scorecard
	}

	candidates := make([]*fundCandidate, 0, len(codes))
	for _, code := range codes {
		fund := funds[code]
		c := &fundCandidate{code: code, fund: fund}

		fundRisk := fundRiskScore(fund.RiskRating, fund.RiskLevel)
		riskMatch := 10 - math.Abs(float64(p.RiskTolerance)-fundRisk)
		c.card.score += riskMatch
		if riskMatch > 7 {
			c.card.reasons = append(c.card.reasons, "Risk level well-matched to your profile")
		}

		c.card.apply(
			fundReturnsSignal(fund, p.InvestmentHorizon),
			fundShortHorizonRiskSignal(fund, p.InvestmentHorizon),
			fundCategorySignal(fund.Category, allocation),
		)
		c.card.apply(
			expenseRatioSignal(fund.ExpenseRatio),
			aumSignal(fund.AUMCrores),
		)

		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].card.score > candidates[j].card.score
	})
	if len(candidates) > e.cfg.MutualFundTopN {
		candidates = candidates[:e.cfg.MutualFundTopN]
	}

	recommendations := make([]contracts.FundRecommendation, 0, len(candidates))
	for _, c := range candidates {
		recommendations = append(recommendations, contracts.FundRecommendation{
			Code:         c.code,
			Name:         c.fund.Name,
			Category:     c.fund.Category,
			NAV:          c.fund.NAV,
			ExpenseRatio: c.fund.ExpenseRatio,
			Returns: contracts.FundReturns{
				OneYear:   c.fund.OneYearReturn,
				ThreeYear: c.fund.ThreeYearReturn,
				FiveYear:  c.fund.FiveYearReturn,
			},
			Score:  round2(c.card.score),
			Reason: c.card.reasonText(2),
		})
	}

	e.logger.WithField("count", len(recommendations)).Info("Generated mutual fund recommendations")
	return recommendations
}

// fundReturnsSignal picks the return window that matters for the
// investor's horizon. The signal only fires when every return the window
// needs is reported; new funds with a short track record simply skip it.
func fundReturnsSignal(fund contracts.MutualFund, horizonYears int) *signal {
	switch {
	case horizonYears <= 1:
		if !fund.OneYearReturn.Valid {
			return nil
		}
		oneYear := fund.OneYearReturn.Value
		if oneYear > 10 {
			return sig(3, fmt.Sprintf("Strong 1-year returns of %.2f%%", oneYear))
		}
		if oneYear > 5 {
			return sig(2, fmt.Sprintf("Good 1-year returns of %.2f%%", oneYear))
		}
	case horizonYears <= 3:
		if !fund.OneYearReturn.Valid || !fund.ThreeYearReturn.Valid {
			return nil
		}
		avg := (fund.OneYearReturn.Value + fund.ThreeYearReturn.Value) / 2
		if avg > 12 {
			return sig(3, fmt.Sprintf("Strong medium-term returns averaging %.2f%%", avg))
		}
		if avg > 8 {
			return sig(2, fmt.Sprintf("Good medium-term returns averaging %.2f%%", avg))
		}
	default:
		if !fund.ThreeYearReturn.Valid || !fund.FiveYearReturn.Valid {
			return nil
		}
		avg := (fund.ThreeYearReturn.Value + fund.FiveYearReturn.Value) / 2
		if avg > 12 {
			return sig(5, fmt.Sprintf("Excellent long-term returns averaging %.2f%%", avg))
		}
		if avg > 9 {
			return sig(3, fmt.Sprintf("Strong long-term returns averaging %.2f%%", avg))
		}
	}
	return nil
}

// fundShortHorizonRiskSignal rewards conservative funds for horizons of a
// year or less.
func fundShortHorizonRiskSignal(fund contracts.MutualFund, horizonYears int) *signal {
	if horizonYears > 1 {
		return nil
	}
	if fundRiskScore(fund.RiskRating, fund.RiskLevel) < 4 {
		return sig(3, "Lower risk fund suitable for your short time horizon")
	}
	return nil
}

// fundCategorySignal rewards funds whose category matches the target
// asset allocation.
func fundCategorySignal(category string, allocation contracts.AssetAllocation) *signal {
	switch category {
	case "Equity":
		if allocation.Equity > 60 {
			return sig(2, "Equity fund matches your growth-oriented allocation")
		}
	case "Debt":
		if allocation.Debt > 60 {
			return sig(2, "Debt fund matches your stability-oriented allocation")
		}
	case "Hybrid":
		if allocation.Equity >= 40 && allocation.Equity <= 60 {
			return sig(3, "Hybrid fund matches your balanced allocation")
		}
	}
	return nil
}

func expenseRatioSignal(expense contracts.OptFloat) *signal {
	if !expense.Valid {
		return nil
	}
	switch {
	case expense.Value < 0.5:
		return sig(2, fmt.Sprintf("Very low expense ratio of %.2f%%", expense.Value))
	case expense.Value < 1.0:
		return sig(1, fmt.Sprintf("Low expense ratio of %.2f%%", expense.Value))
	}
	return nil
}

func aumSignal(aumCrores contracts.OptFloat) *signal {
	if aumCrores.Valid && aumCrores.Value > 5000 {
		return sig(1, "Large fund with strong assets under management")
	}
	return nil
}
