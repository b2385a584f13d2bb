package engine

import (
	"sort"
	"strings"

	"github.com/finzo/backend/internal/contracts"
)

// ScoreCommodities ranks the tracked commodities by their role in the
// portfolio. Gold and silver stay attractive for conservative investors;
// industrial metals and energy reward higher risk and longer horizons.
func (e *Engine) ScoreCommodities(p contracts.Profile, commodities map[string]contracts.Commodity) []contracts.CommodityRecommendation {
	if len(commodities) == 0 {
		e.logger.Warn("No commodity data available")
		return []contracts.CommodityRecommendation{}
	}

	allocation := e.Allocation(p)

	names := make([]string, 0, len(commodities))
	for name := range commodities {
		names = append(names, name)
	}
	sort.Strings(names)

	type commodityCandidate struct {
		name      string
		commodity contracts.Commodity
		card      scorecard
	}

	candidates := make([]*commodityCandidate, 0, len(names))
	for _, name := range names {
		commodity := commodities[name]
		c := &commodityCandidate{name: name, commodity: commodity}

		c.card.apply(
			commodityBaseSignal(name),
			commodityMomentumSignal(commodity.DayChange),
			commodityRiskFitSignal(name, p.RiskTolerance),
			commodityHorizonSignal(name, p.InvestmentHorizon),
		)

		// A small gold holding rounds out a minimal commodity sleeve
		if allocation.Commodities <= 5 && name == "Gold" {
			c.card.add(1, "Gold fits well in a small commodity allocation")
		}

		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].card.score > candidates[j].card.score
	})
	if len(candidates) > e.cfg.CommodityTopN {
		candidates = candidates[:e.cfg.CommodityTopN]
	}

	recommendations := make([]contracts.CommodityRecommendation, 0, len(candidates))
	for _, c := range candidates {
		recommendations = append(recommendations, contracts.CommodityRecommendation{
			Name:         c.name,
			CurrentPrice: c.commodity.CurrentPrice.Or(0),
			Unit:         c.commodity.Unit,
			Score:        round2(c.card.score),
			Reason:       c.card.reasonText(2),
		})
	}

	e.logger.WithField("count", len(recommendations)).Info("Generated commodity recommendations")
	return recommendations
}

func commodityBaseSignal(name string) *signal {
	switch {
	case name == "Gold":
		return sig(5, "Gold is a traditional safe haven and inflation hedge")
	case name == "Silver":
		return sig(4, "Silver offers both precious metal and industrial demand")
	case strings.Contains(name, "Oil"):
		return sig(3, "Energy commodities track economic activity")
	default:
		return sig(2, "Industrial commodity with cyclical demand")
	}
}

func commodityMomentumSignal(dayChange contracts.OptFloat) *signal {
	if !dayChange.Valid {
		return nil
	}
	switch {
	case dayChange.Value > 1:
		return sig(2, "Strong positive momentum today")
	case dayChange.Value > 0:
		return sig(1, "Positive momentum today")
	case dayChange.Value < -1:
		return sig(-1, "Negative momentum today")
	}
	return nil
}

// commodityRiskFitSignal matches the commodity to the investor's risk
// band. The bands are exclusive: a conservative investor only gets the
// gold bonus, never the broader precious-metals one.
func commodityRiskFitSignal(name string, risk int) *signal {
	precious := name == "Gold" || name == "Silver"
	switch {
	case risk <= 3:
		if name == "Gold" {
			return sig(3, "Gold suits your conservative risk profile")
		}
	case risk <= 7:
		if precious {
			return sig(2, "Precious metals suit your moderate risk profile")
		}
	default:
		if !precious {
			return sig(2, "Industrial commodities suit your higher risk appetite")
		}
	}
	return nil
}

func commodityHorizonSignal(name string, horizonYears int) *signal {
	if horizonYears <= 2 && name == "Gold" {
		return sig(2, "Gold holds value well over short horizons")
	}
	if horizonYears >= 5 {
		switch name {
		case "Copper", "Aluminium", "Crude Oil":
			return sig(2, "Industrial demand supports long-term prospects")
		}
	}
	return nil
}
