package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/finzo/backend/internal/contracts"
)

// ScoreSIPs ranks the available SIP plans and sizes a monthly amount for
// each, splitting the recommended monthly investment capacity across the
// winners in proportion to their scores.
func (e *Engine) ScoreSIPs(p contracts.Profile, plans map[string]contracts.SIPPlan) []contracts.SIPRecommendation {
	if len(plans) == 0 {
		e.logger.Warn("No SIP plans available")
		return []contracts.SIPRecommendation{}
	}

	allocation := e.Allocation(p)
	capacity := e.Capacity(p).RecommendedMonthlyInvestment

	names := make([]string, 0, len(plans))
	for name := range plans {
		names = append(names, name)
	}
	sort.Strings(names)

	type sipCandidate struct {
		name string
		plan contracts.SIPPlan
		card scorecard
	}

	candidates := make([]*sipCandidate, 0, len(names))
	for _, name := range names {
		plan := plans[name]
		c := &sipCandidate{name: name, plan: plan}

		if planRisk, ok := sipRiskScore(plan); ok {
			riskMatch := 10 - math.Abs(float64(p.RiskTolerance)-planRisk)
			c.card.score += riskMatch
			if riskMatch > 7 {
				c.card.reasons = append(c.card.reasons, "Risk level well-matched to your profile")
			}
		}

		c.card.apply(sipDurationSignal(plan.RecommendedDuration, p.InvestmentHorizon))
		c.card.apply(sipNameSignals(name, p.RiskTolerance, allocation)...)
		c.card.apply(sipAffordabilitySignal(plan.MinInvestment, capacity))

		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].card.score > candidates[j].card.score
	})
	if len(candidates) > e.cfg.SIPTopN {
		candidates = candidates[:e.cfg.SIPTopN]
	}

	var totalScore float64
	for _, c := range candidates {
		totalScore += c.card.score
	}

	recommendations := make([]contracts.SIPRecommendation, 0, len(candidates))
	for _, c := range candidates {
		ratio := 0.2
		if totalScore > 0 {
			ratio = c.card.score / totalScore
		}
		monthly := math.Round(capacity*ratio/100) * 100
		if min := c.plan.MinInvestment.Or(0); monthly < min {
			monthly = min
		}

		recommendations = append(recommendations, contracts.SIPRecommendation{
			Name:            c.name,
			RiskLevel:       c.plan.RiskLevel,
			MonthlyAmount:   monthly,
			MinInvestment:   c.plan.MinInvestment,
			ExpectedReturns: c.plan.ExpectedReturns,
			TaxBenefits:     c.plan.TaxBenefits,
			Score:           round2(c.card.score),
			Reason:          c.card.reasonText(2),
		})
	}

	e.logger.WithField("count", len(recommendations)).Info("Generated SIP recommendations")
	return recommendations
}

// sipRiskScore resolves a plan's risk like fundRiskScore does for funds,
// except the textual level takes precedence since plan templates usually
// carry one. A plan describing its risk neither way reports no risk at
// all, and the risk-match contribution is skipped for it.
func sipRiskScore(plan contracts.SIPPlan) (float64, bool) {
	if plan.RiskLevel != "" {
		if score, ok := riskLevelScores[plan.RiskLevel]; ok {
			return score, true
		}
		return 5, true
	}
	if plan.RiskRating.Valid {
		return plan.RiskRating.Value, true
	}
	return 0, false
}

// sipDurationSignal compares the plan's recommended duration against the
// investor's horizon. Durations arrive either as a plain number of years
// or as a range string such as "5-10 years", in which case the lower
// bound is what must fit.
func sipDurationSignal(duration contracts.FlexField, horizonYears int) *signal {
	minYears, ok := minDurationYears(duration)
	if !ok {
		return nil
	}
	if horizonYears >= minYears {
		return sig(3, "Recommended duration fits your investment horizon")
	}
	return sig(-2, "Recommended duration exceeds your investment horizon")
}

func minDurationYears(duration contracts.FlexField) (int, bool) {
	if !duration.Set {
		return 0, false
	}
	if !duration.IsText {
		return int(duration.Number), true
	}

	lower := strings.SplitN(duration.Text, "-", 2)[0]
	if m := firstIntPattern.FindString(lower); m != "" {
		years, err := strconv.Atoi(m)
		if err == nil {
			return years, true
		}
	}
	return 0, false
}

// sipNameSignals keys off the plan name to reward alignment with the
// allocation and, for tax savers, with risk appetite. Each keyword check
// stands on its own, so a hybrid name can collect more than one.
func sipNameSignals(name string, risk int, allocation contracts.AssetAllocation) []*signal {
	var signals []*signal
	if strings.Contains(name, "Equity") && allocation.Equity > 50 {
		signals = append(signals, sig(2, "Equity SIP matches your growth-oriented allocation"))
	}
	if strings.Contains(name, "Balanced") && allocation.Equity >= 30 && allocation.Equity <= 70 {
		signals = append(signals, sig(3, "Balanced SIP matches your allocation"))
	}
	if strings.Contains(name, "Debt") && allocation.Debt > 40 {
		signals = append(signals, sig(2, "Debt SIP matches your stability-oriented allocation"))
	}
	if strings.Contains(name, "ELSS") || strings.Contains(name, "Tax") {
		if risk >= 6 {
			signals = append(signals, sig(2, "Tax-saving SIP suits your risk appetite"))
		} else {
			signals = append(signals, sig(-1, "Tax-saving SIP carries more risk than your profile suggests"))
		}
	}
	return signals
}

func sipAffordabilitySignal(minInvestment contracts.OptFloat, capacity float64) *signal {
	if !minInvestment.Valid {
		return nil
	}
	if capacity >= 3*minInvestment.Value {
		return sig(1, "Comfortably within your monthly investment capacity")
	}
	if capacity < minInvestment.Value {
		return sig(-3, "Minimum investment exceeds your monthly capacity")
	}
	return nil
}
