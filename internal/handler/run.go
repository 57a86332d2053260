package handler

import (
	"net/http"

	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/run"
)

// RunHandler issues and completes run tickets
type RunHandler struct {
	service run.Service
}

// NewRunHandler creates a new run handler
func NewRunHandler(service run.Service) *RunHandler {
	return &RunHandler{service: service}
}

// StartRunRequest selects the mode and, optionally, the perks of a run.
// Omitting perkIds uses the equipped loadout.
type StartRunRequest struct {
	Mode    string   `json:"mode" validate:"runmode"`
	PerkIDs []string `json:"perkIds" validate:"omitempty,max=8,dive,max=64"`
}

// CompleteRunRequest reports the outcome of a run
type CompleteRunRequest struct {
	Ticket          string   `json:"ticket" validate:"required,max=64"`
	Score           *float64 `json:"score" validate:"required"`
	SurvivedSeconds *float64 `json:"survivedSeconds"`
	MutatorIDs      []string `json:"mutatorIds" validate:"omitempty,max=16,dive,max=64"`
}

// HandleStartRun issues a run ticket
// @Summary Start a run
// @Tags run
// @Accept json
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string true "Username"
// @Param request body StartRunRequest true "Run options"
// @Success 201 {object} domain.RunStart
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/run/start [post]
func (h *RunHandler) HandleStartRun(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r, OpStartRun) {
		return
	}

	var req StartRunRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpStartRun); err != nil {
		return
	}

	start, err := h.service.StartRun(r.Context(), requestIdentity(r), run.StartRequest{
		Mode:    domain.Mode(req.Mode),
		PerkIDs: req.PerkIDs,
	})
	if err != nil {
		respondServiceError(w, r, OpStartRun, err)
		return
	}
	respondJSON(w, http.StatusCreated, start)
}

// HandleCompleteRun converts a finished run into rewards
// @Summary Complete a run
// @Tags run
// @Accept json
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string true "Username"
// @Param request body CompleteRunRequest true "Run outcome"
// @Success 200 {object} domain.RunResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Router /api/v1/run/complete [post]
func (h *RunHandler) HandleCompleteRun(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r, OpCompleteRun) {
		return
	}

	var req CompleteRunRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpCompleteRun); err != nil {
		return
	}

	result, err := h.service.CompleteRun(r.Context(), requestIdentity(r), domain.RunCompletion{
		Ticket:          req.Ticket,
		Score:           *req.Score,
		SurvivedSeconds: req.SurvivedSeconds,
		MutatorIDs:      req.MutatorIDs,
	})
	if err != nil {
		respondServiceError(w, r, OpCompleteRun, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
