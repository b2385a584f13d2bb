package engine

import "github.com/finzo/backend/internal/contracts"

// RiskManagementTips assembles the advisory checklist shown with every
// bundle: universal items plus debt, savings-rate, horizon, and risk
// specific guidance. Debt is compared against annual income here, unlike
// the capacity calculation which works on monthly income.
func (e *Engine) RiskManagementTips(p contracts.Profile) []string {
	tips := []string{
		"Always maintain an emergency fund of at least 6 months of expenses.",
		"Diversify your investments across asset classes to reduce risk.",
	}

	debtToAnnualIncome := 1.0
	if p.MonthlyIncome > 0 {
		debtToAnnualIncome = p.CurrentDebt / (p.MonthlyIncome * 12)
	}
	if debtToAnnualIncome > 0.5 {
		tips = append(tips,
			"Your debt level is high. Consider prioritizing debt reduction before increasing investments.",
			"Focus on high-interest debt first to reduce interest costs.",
		)
	}

	savingsRate := 0.0
	if p.MonthlyIncome > 0 {
		savingsRate = (p.MonthlyIncome - p.MonthlyExpense) / p.MonthlyIncome
	}
	if savingsRate < 0.2 {
		tips = append(tips, "Your savings rate is low. Try to increase it to at least 20% of income for long-term financial security.")
	}

	tips = append(tips, "Ensure you have adequate health and term life insurance before investing.")

	switch {
	case p.InvestmentHorizon < 3:
		tips = append(tips,
			"For short-term goals, prioritize capital preservation over returns. Avoid high-risk investments.",
			"Consider liquid funds and short-term debt funds for goals within 1-3 years.",
		)
	case p.InvestmentHorizon < 7:
		tips = append(tips,
			"For medium-term goals (3-7 years), consider a balanced approach with a mix of equity and debt.",
			"Use SIPs to average out market volatility over your investment period.",
		)
	default:
		tips = append(tips,
			"For long-term goals (7+ years), equity exposure can be higher as you have time to ride out market fluctuations.",
			"Consider index funds for long-term core equity exposure with lower expense ratios.",
		)
	}

	switch {
	case p.RiskTolerance <= 3:
		tips = append(tips,
			"With your conservative risk profile, focus on capital preservation with larger allocation to debt and high-quality large-cap stocks.",
			"Consider regular portfolio rebalancing to ensure risk levels don't exceed your comfort zone.",
		)
	case p.RiskTolerance <= 7:
		tips = append(tips,
			"With your moderate risk profile, maintain a balanced portfolio with regular rebalancing.",
			"Consider reducing equity exposure if approaching financial goals within 2-3 years.",
		)
	default:
		tips = append(tips,
			"With your aggressive risk profile, still ensure at least 10-15% in less volatile assets as a safety cushion.",
			"Set strict stop-loss limits for high-risk investments to prevent major losses.",
		)
	}

	tips = append(tips,
		"Consider tax-efficient investment options like ELSS funds for equity and debt funds held for over 3 years.",
		"Utilize tax-saving options under Section 80C, 80D, and other applicable deductions.",
		"Avoid timing the market; instead, focus on time in the market through disciplined investing.",
		"Don't chase past performance blindly; assess if the investment strategy aligns with your goals.",
		"Review your portfolio at least quarterly, but avoid frequent changes based on short-term market movements.",
		"Reassess your risk profile and investment strategy annually or after major life events.",
	)

	return tips
}
