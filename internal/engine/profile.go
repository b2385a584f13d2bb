package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/finzo/backend/internal/contracts"
)

const (
	defaultRiskScore    = 5
	defaultHorizonYears = 5
)

var firstIntPattern = regexp.MustCompile(`(\d+)`)

// riskKeywords maps descriptive risk tolerance to the 1-10 scale
var riskKeywords = map[string]int{
	"low":          3,
	"conservative": 3,
	"medium":       5,
	"moderate":     5,
	"high":         8,
	"aggressive":   8,
}

// NormalizeProfile converts a raw submitted profile into the canonical
// numeric Profile. Textual risk/horizon values that fail to parse fall back
// to defaults (degrade gracefully, by policy); structurally invalid values
// such as negative amounts return an InvalidProfileError. Any silent-looking
// adjustment (e.g. clamping risk into [1,10]) is surfaced in the returned
// adjustment list rather than dropped.
func (e *Engine) NormalizeProfile(raw contracts.RawProfile) (contracts.Profile, []string, error) {
	var adjustments []string

	amounts := []struct {
		field string
		value contracts.OptFloat
	}{
		{"monthly_income", raw.MonthlyIncome},
		{"monthly_expenses", raw.MonthlyExpenses},
		{"current_savings", raw.CurrentSavings},
		{"existing_investments", raw.ExistingInvestments},
		{"current_debt", raw.CurrentDebt},
	}
	for _, a := range amounts {
		if a.value.Valid && a.value.Value < 0 {
			return contracts.Profile{}, nil, &contracts.InvalidProfileError{
				Field:  a.field,
				Reason: "must not be negative",
			}
		}
	}

	risk, riskAdj := resolveRisk(raw.RiskTolerance)
	if riskAdj != "" {
		adjustments = append(adjustments, riskAdj)
	}

	horizon := resolveHorizon(raw.InvestmentHorizon)
	if horizon < 0 {
		return contracts.Profile{}, nil, &contracts.InvalidProfileError{
			Field:  "investment_time_horizon",
			Reason: "must not be negative",
		}
	}

	profile := contracts.Profile{
		MonthlyIncome:       raw.MonthlyIncome.Or(0),
		MonthlyExpense:      raw.MonthlyExpenses.Or(0),
		CurrentSavings:      raw.CurrentSavings.Or(0),
		ExistingInvestments: raw.ExistingInvestments.Or(0),
		CurrentDebt:         raw.CurrentDebt.Or(0),
		InvestmentHorizon:   horizon,
		RiskTolerance:       risk,
	}

	return profile, adjustments, nil
}

// resolveRisk maps a textual or numeric risk tolerance to [1,10].
// Text goes through the keyword map (unknown text defaults to moderate);
// numbers pass through, clamped with the adjustment surfaced.
func resolveRisk(field contracts.FlexField) (int, string) {
	if !field.Set {
		return defaultRiskScore, ""
	}

	if field.IsText {
		key := strings.ToLower(strings.TrimSpace(field.Text))
		if score, ok := riskKeywords[key]; ok {
			return score, ""
		}
		return defaultRiskScore, ""
	}

	score := int(field.Number)
	if score < 1 {
		return 1, fmt.Sprintf("risk_tolerance adjusted from %d to 1 (valid range: 1-10)", score)
	}
	if score > 10 {
		return 10, fmt.Sprintf("risk_tolerance adjusted from %d to 10 (valid range: 1-10)", score)
	}
	return score, ""
}

// resolveHorizon maps a textual or numeric investment horizon to years.
// Keywords short/medium/long map to 2/5/10; otherwise the first integer in
// the text wins ("7 years" -> 7); otherwise the default of 5.
func resolveHorizon(field contracts.FlexField) int {
	if !field.Set {
		return defaultHorizonYears
	}

	if !field.IsText {
		return int(field.Number)
	}

	text := strings.ToLower(strings.TrimSpace(field.Text))
	switch {
	case strings.Contains(text, "short"):
		return 2
	case strings.Contains(text, "medium"):
		return 5
	case strings.Contains(text, "long"):
		return 10
	}

	if m := firstIntPattern.FindString(text); m != "" {
		var years int
		fmt.Sscanf(m, "%d", &years)
		return years
	}

	return defaultHorizonYears
}
