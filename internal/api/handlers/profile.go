package handlers

import (
	"net/http"

	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/internal/engine"
	"github.com/finzo/backend/pkg/logger"
)

// ProfileHandler serves the pure profile analyses that need no market
// data: investment capacity, asset allocation, and portfolio guidance.
type ProfileHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(eng *engine.Engine, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		engine: eng,
		logger: log,
	}
}

// GetCapacity returns the investment capacity summary
// POST /api/profile/capacity
func (h *ProfileHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, func(p contracts.Profile) interface{} {
		return h.engine.Capacity(p)
	})
}

// GetAllocation returns the recommended asset allocation
// POST /api/profile/allocation
func (h *ProfileHandler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, func(p contracts.Profile) interface{} {
		return h.engine.Allocation(p)
	})
}

// GuidanceResponse pairs the coarse guidance with the risk tips.
type GuidanceResponse struct {
	Guidance       contracts.PortfolioGuidance `json:"guidance"`
	RiskManagement []string                    `json:"risk_management"`
}

// GetGuidance returns portfolio guidance and risk management tips
// POST /api/profile/guidance
func (h *ProfileHandler) GetGuidance(w http.ResponseWriter, r *http.Request) {
	h.analyze(w, r, func(p contracts.Profile) interface{} {
		return GuidanceResponse{
			Guidance:       h.engine.PortfolioGuidance(p),
			RiskManagement: h.engine.RiskManagementTips(p),
		}
	})
}

func (h *ProfileHandler) analyze(
	w http.ResponseWriter,
	r *http.Request,
	fn func(contracts.Profile) interface{},
) {
	raw, err := decodeProfile(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, adjustments, err := h.engine.NormalizeProfile(raw)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	for _, adj := range adjustments {
		h.logger.WithField("adjustment", adj).Warn("Profile value adjusted")
	}

	respondJSON(w, http.StatusOK, fn(profile))
}
