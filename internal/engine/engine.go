package engine

import (
	"time"

	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

// Engine produces personalized investment recommendations from a canonical
// financial profile and a collected market snapshot. It carries only tuning
// constants and a logger: every scoring method is a pure function of its
// inputs, safe for concurrent use, and never mutates the snapshot.
type Engine struct {
	cfg    config.EngineConfig
	logger *logger.Logger
}

// New creates a recommendation engine
func New(cfg config.EngineConfig, log *logger.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: log.WithField("module", "engine"),
	}
}

// Recommend runs the full scoring pass for one profile against a snapshot
// and assembles the complete bundle. An empty asset class yields an empty
// list, never an error.
func (e *Engine) Recommend(raw contracts.RawProfile, snap *contracts.MarketSnapshot) (*contracts.RecommendationBundle, error) {
	profile, adjustments, err := e.NormalizeProfile(raw)
	if err != nil {
		return nil, err
	}
	for _, adj := range adjustments {
		e.logger.WithField("adjustment", adj).Warn("Profile value adjusted")
	}

	bundle := &contracts.RecommendationBundle{
		GeneratedAt:    time.Now(),
		Profile:        profile,
		Capacity:       e.Capacity(profile),
		Allocation:     e.Allocation(profile),
		Stocks:         e.ScoreStocks(profile, snap.Technical, snap.Fundamental, snap.Sentiment),
		MutualFunds:    e.ScoreMutualFunds(profile, snap.MutualFunds),
		Commodities:    e.ScoreCommodities(profile, snap.Commodities),
		SIPs:           e.ScoreSIPs(profile, snap.SIPPlans),
		RiskManagement: e.RiskManagementTips(profile),
	}

	e.logger.WithFields(map[string]interface{}{
		"stocks":       len(bundle.Stocks),
		"mutual_funds": len(bundle.MutualFunds),
		"commodities":  len(bundle.Commodities),
		"sips":         len(bundle.SIPs),
	}).Info("Generated recommendation bundle")

	return bundle, nil
}
