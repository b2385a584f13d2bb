package engine

import (
	"fmt"
	"math"

	"github.com/finzo/backend/internal/contracts"
)

// PortfolioGuidance produces the coarse display-oriented allocation with
// strategy suggestions. Unlike Allocation it works in whole percentage
// points and fixed cap splits per risk band.
func (e *Engine) PortfolioGuidance(p contracts.Profile) contracts.PortfolioGuidance {
	equityPercent := int(math.Min(90, math.Max(30, float64(p.RiskTolerance*7+p.InvestmentHorizon*2))))
	debtPercent := 100 - equityPercent

	assetAllocation := map[string]string{
		"Equity": fmt.Sprintf("%d%%", equityPercent),
		"Debt":   fmt.Sprintf("%d%%", debtPercent),
	}

	var equityAllocation map[string]string
	strategies := []string{
		"Regular investments through SIPs",
		"Maintain an emergency fund of 6 months' expenses",
	}

	switch {
	case p.RiskTolerance <= 3:
		equityAllocation = map[string]string{
			"Large Cap": "70%",
			"Mid Cap":   "20%",
			"Small Cap": "10%",
		}
		strategies = append(strategies,
			"Focus on blue-chip stocks with stable dividends",
			"Prefer liquid debt funds for safer returns",
			"Consider corporate bonds from highly rated companies",
		)
	case p.RiskTolerance <= 7:
		equityAllocation = map[string]string{
			"Large Cap": "50%",
			"Mid Cap":   "30%",
			"Small Cap": "20%",
		}
		strategies = append(strategies,
			"Balanced mix of growth and value stocks",
			"Consider hybrid funds for diversification",
			"Tactical allocation between equity and debt based on market conditions",
		)
	default:
		equityAllocation = map[string]string{
			"Large Cap": "30%",
			"Mid Cap":   "40%",
			"Small Cap": "30%",
		}
		strategies = append(strategies,
			"Focus on growth stocks with long-term potential",
			"Consider thematic and sectoral funds",
			"Look for high-growth small and mid-cap opportunities",
		)
	}

	return contracts.PortfolioGuidance{
		AssetAllocation:      assetAllocation,
		EquityAllocation:     equityAllocation,
		InvestmentStrategies: strategies,
	}
}
