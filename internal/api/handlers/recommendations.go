package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/internal/engine"
	"github.com/finzo/backend/internal/store"
	"github.com/finzo/backend/pkg/logger"
)

// RecommendationsHandler serves scored recommendations. Every endpoint
// takes a raw financial profile in the request body and scores it against
// the latest market snapshot.
type RecommendationsHandler struct {
	engine    *engine.Engine
	collector *collector.Collector
	repo      *store.Repository // nil when running without a database
	logger    *logger.Logger
}

// NewRecommendationsHandler creates a new recommendations handler
func NewRecommendationsHandler(
	eng *engine.Engine,
	col *collector.Collector,
	repo *store.Repository,
	log *logger.Logger,
) *RecommendationsHandler {
	return &RecommendationsHandler{
		engine:    eng,
		collector: col,
		repo:      repo,
		logger:    log,
	}
}

// snapshot resolves the freshest available snapshot: the cache first, then
// the last persisted one when the cache is cold.
func (h *RecommendationsHandler) snapshot(ctx context.Context) (*contracts.MarketSnapshot, error) {
	snap, err := h.collector.CachedSnapshot(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, contracts.ErrDataUnavailable) {
		h.logger.WithError(err).Warn("Snapshot cache read failed")
	}
	if h.repo == nil {
		return nil, contracts.ErrDataUnavailable
	}
	return h.repo.LatestSnapshot(ctx)
}

func decodeProfile(r *http.Request) (contracts.RawProfile, error) {
	var raw contracts.RawProfile
	err := json.NewDecoder(r.Body).Decode(&raw)
	return raw, err
}

// GetBundle returns the full recommendation bundle
// POST /api/recommendations
func (h *RecommendationsHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw, err := decodeProfile(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snap, err := h.snapshot(ctx)
	if errors.Is(err, contracts.ErrDataUnavailable) && h.repo != nil {
		// No market data right now; fall back to the last bundle stored
		// for this exact profile, if any.
		profile, _, normErr := h.engine.NormalizeProfile(raw)
		if normErr != nil {
			respondEngineError(w, normErr)
			return
		}
		if stored, loadErr := h.repo.LatestBundle(ctx, profile); loadErr == nil && stored != nil {
			respondJSON(w, http.StatusOK, stored)
			return
		}
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}

	bundle, err := h.engine.Recommend(raw, snap)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveBundle(ctx, bundle); err != nil {
			h.logger.WithError(err).Warn("Failed to persist recommendation bundle")
		}
	}

	respondJSON(w, http.StatusOK, bundle)
}

// GetStocks returns ranked stock recommendations only
// POST /api/recommendations/stocks
func (h *RecommendationsHandler) GetStocks(w http.ResponseWriter, r *http.Request) {
	h.scoreOne(w, r, func(p contracts.Profile, snap *contracts.MarketSnapshot) interface{} {
		return h.engine.ScoreStocks(p, snap.Technical, snap.Fundamental, snap.Sentiment)
	})
}

// GetMutualFunds returns ranked mutual fund recommendations only
// POST /api/recommendations/mutual-funds
func (h *RecommendationsHandler) GetMutualFunds(w http.ResponseWriter, r *http.Request) {
	h.scoreOne(w, r, func(p contracts.Profile, snap *contracts.MarketSnapshot) interface{} {
		return h.engine.ScoreMutualFunds(p, snap.MutualFunds)
	})
}

// GetCommodities returns ranked commodity recommendations only
// POST /api/recommendations/commodities
func (h *RecommendationsHandler) GetCommodities(w http.ResponseWriter, r *http.Request) {
	h.scoreOne(w, r, func(p contracts.Profile, snap *contracts.MarketSnapshot) interface{} {
		return h.engine.ScoreCommodities(p, snap.Commodities)
	})
}

// GetSIPs returns ranked SIP recommendations only
// POST /api/recommendations/sip
func (h *RecommendationsHandler) GetSIPs(w http.ResponseWriter, r *http.Request) {
	h.scoreOne(w, r, func(p contracts.Profile, snap *contracts.MarketSnapshot) interface{} {
		return h.engine.ScoreSIPs(p, snap.SIPPlans)
	})
}

// scoreOne runs one asset-class scorer against the latest snapshot.
func (h *RecommendationsHandler) scoreOne(
	w http.ResponseWriter,
	r *http.Request,
	score func(contracts.Profile, *contracts.MarketSnapshot) interface{},
) {
	raw, err := decodeProfile(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, _, err := h.engine.NormalizeProfile(raw)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, score(profile, snap))
}
