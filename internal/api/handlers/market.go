package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/internal/store"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/logger"
)

// MarketHandler serves raw market snapshots and on-demand refreshes.
type MarketHandler struct {
	collector *collector.Collector
	repo      *store.Repository // nil when running without a database
	cfg       *config.Config
	logger    *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(col *collector.Collector, repo *store.Repository, cfg *config.Config, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		collector: col,
		repo:      repo,
		cfg:       cfg,
		logger:    log,
	}
}

func (h *MarketHandler) latest(ctx context.Context) (*contracts.MarketSnapshot, error) {
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

// GetSnapshot returns the latest collected market snapshot
// GET /api/market/snapshot
func (h *MarketHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.latest(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// RefreshResponse summarizes a completed collection pass.
type RefreshResponse struct {
	Status      string `json:"status"`
	Symbols     int    `json:"symbols"`
	MutualFunds int    `json:"mutual_funds"`
	Commodities int    `json:"commodities"`
}

// Refresh triggers an immediate snapshot collection
// POST /api/market/refresh
func (h *MarketHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.collector.CollectSnapshot(ctx, h.cfg.Collector.MaxStocks)
	if err != nil {
		h.logger.WithError(err).Error("Snapshot refresh failed")
		respondError(w, http.StatusInternalServerError, "Snapshot collection failed")
		return
	}

	if h.repo != nil {
		if err := h.repo.SaveSnapshot(ctx, snap); err != nil {
			h.logger.WithError(err).Warn("Failed to persist snapshot")
		}
	}

	respondJSON(w, http.StatusOK, RefreshResponse{
		Status:      "ok",
		Symbols:     snap.SymbolCount(),
		MutualFunds: len(snap.MutualFunds),
		Commodities: len(snap.Commodities),
	})
}
