package contracts

// DefaultSIPPlans returns the built-in SIP plan templates used until a
// configured set is loaded from storage.
func DefaultSIPPlans() map[string]SIPPlan {
	return map[string]SIPPlan{
		"Equity SIP": {
			Name:                "Equity SIP",
			Category:            "Equity",
			RiskLevel:           "High",
			MinInvestment:       Float(1000),
			RecommendedDuration: FlexNumber(5),
			ExpectedReturns:     Float(12.0),
			Description:         "SIP in top-performing equity funds for long-term growth",
			SuitableFor:         "Aggressive investors looking for long-term wealth creation",
		},
		"Debt SIP": {
			Name:                "Debt SIP",
			Category:            "Debt",
			RiskLevel:           "Low",
			MinInvestment:       Float(1000),
			RecommendedDuration: FlexNumber(3),
			ExpectedReturns:     Float(7.0),
			Description:         "SIP in debt funds for stable returns with lower risk",
			SuitableFor:         "Conservative investors looking for stable income",
		},
		"Balanced SIP": {
			Name:                "Balanced SIP",
			Category:            "Hybrid",
			RiskLevel:           "Medium",
			MinInvestment:       Float(1000),
			RecommendedDuration: FlexNumber(4),
			ExpectedReturns:     Float(9.0),
			Description:         "SIP in hybrid funds for balanced growth and stability",
			SuitableFor:         "Moderate investors looking for balanced returns",
		},
		"ELSS SIP": {
			Name:                "ELSS SIP",
			Category:            "Equity (Tax-Saving)",
			RiskLevel:           "High",
			MinInvestment:       Float(500),
			RecommendedDuration: FlexNumber(3),
			ExpectedReturns:     Float(12.0),
			TaxBenefits:         "Section 80C",
			Description:         "SIP in ELSS funds for tax benefits under Section 80C",
			SuitableFor:         "Investors looking for tax savings with equity returns",
		},
		"Liquid SIP": {
			Name:                "Liquid SIP",
			Category:            "Liquid",
			RiskLevel:           "Very Low",
			MinInvestment:       Float(500),
			RecommendedDuration: FlexNumber(1),
			ExpectedReturns:     Float(5.0),
			Description:         "SIP in liquid funds for short-term parking of funds",
			SuitableFor:         "Investors looking for alternatives to savings accounts",
		},
	}
}
