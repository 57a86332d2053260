package handler

import (
	"encoding/json"
	"net/http"

	"github.com/osse101/RiftRunner_Go/internal/state"
)

// StateHandler serves the free-form save slot
type StateHandler struct {
	service state.Service
}

// NewStateHandler creates a new state handler
func NewStateHandler(service state.Service) *StateHandler {
	return &StateHandler{service: service}
}

// PutStateRequest updates the save slot; at least one field is required.
type PutStateRequest struct {
	Level *float64        `json:"level"`
	Data  json.RawMessage `json:"data" swaggertype:"object"`
}

// HandleGetState returns the caller's saved state
// @Summary Get saved state
// @Tags state
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string false "Username"
// @Success 200 {object} domain.StoredState
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/state [get]
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	saved, err := h.service.GetState(r.Context(), requestIdentity(r))
	if err != nil {
		respondServiceError(w, r, OpGetState, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// HandlePutState merges level and data into the caller's saved state
// @Summary Save state
// @Tags state
// @Accept json
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string true "Username"
// @Param request body PutStateRequest true "State"
// @Success 200 {object} domain.StoredState
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/state [post]
func (h *StateHandler) HandlePutState(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r, OpPutState) {
		return
	}

	var req PutStateRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpPutState); err != nil {
		return
	}

	saved, err := h.service.PutState(r.Context(), requestIdentity(r), state.Update{
		Level: req.Level,
		Data:  req.Data,
	})
	if err != nil {
		respondServiceError(w, r, OpPutState, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}
