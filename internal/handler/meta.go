package handler

import (
	"net/http"

	"github.com/osse101/RiftRunner_Go/internal/meta"
)

// MetaHandler serves the meta view and perk loadout
type MetaHandler struct {
	service      meta.Service
	defaultLimit int
}

// NewMetaHandler creates a new meta handler
func NewMetaHandler(service meta.Service, defaultLimit int) *MetaHandler {
	return &MetaHandler{service: service, defaultLimit: defaultLimit}
}

// EquipPerkRequest toggles one perk on the loadout
type EquipPerkRequest struct {
	PerkID string `json:"perkId" validate:"required,max=64,excludesall=\x00\n\r\t"`
}

// HandleGetMeta returns profile, quests, challenges, catalog and leaderboard
// @Summary Get meta snapshot
// @Tags meta
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string false "Username"
// @Param limit query int false "Leaderboard size (1-100)"
// @Success 200 {object} domain.MetaSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/meta [get]
func (h *MetaHandler) HandleGetMeta(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, h.defaultLimit)
	if !ok {
		return
	}

	snap, err := h.service.GetMeta(r.Context(), requestIdentity(r), limit)
	if err != nil {
		respondServiceError(w, r, OpGetMeta, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// HandleEquipPerk equips the perk, or unequips it when already equipped
// @Summary Toggle a perk
// @Tags meta
// @Accept json
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string true "Username"
// @Param request body EquipPerkRequest true "Perk"
// @Success 200 {object} meta.EquipResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/meta/perk/equip [post]
func (h *MetaHandler) HandleEquipPerk(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r, OpEquipPerk) {
		return
	}

	var req EquipPerkRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpEquipPerk); err != nil {
		return
	}

	res, err := h.service.EquipPerk(r.Context(), requestIdentity(r), req.PerkID)
	if err != nil {
		respondServiceError(w, r, OpEquipPerk, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
