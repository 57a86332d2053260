package handler

import (
	"net/http"

	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
)

// LeaderboardHandler serves the score boards
type LeaderboardHandler struct {
	service      leaderboard.Service
	defaultLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service leaderboard.Service, defaultLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, defaultLimit: defaultLimit}
}

// SubmitScoreRequest records a score outside the run lifecycle
type SubmitScoreRequest struct {
	Score *float64 `json:"score" validate:"required"`
}

// HandleGetLeaderboard returns the global board of the scope
// @Summary Global leaderboard
// @Tags leaderboard
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string false "Username"
// @Param limit query int false "Rows (1-100)"
// @Success 200 {object} domain.LeaderboardSnapshot
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, h.defaultLimit)
	if !ok {
		return
	}

	snap, err := h.service.GetLeaderboard(r.Context(), requestIdentity(r), limit)
	if err != nil {
		respondServiceError(w, r, OpGetLeaderboard, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// HandleGetChallengeLeaderboard returns the board of the current daily or weekly challenge
// @Summary Challenge leaderboard
// @Tags leaderboard
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string false "Username"
// @Param mode query string true "daily or weekly"
// @Param limit query int false "Rows (1-100)"
// @Success 200 {object} domain.LeaderboardSnapshot
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/leaderboard/challenge [get]
func (h *LeaderboardHandler) HandleGetChallengeLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(GetOptionalQueryParam(r, QueryParamMode, string(domain.ModeDaily)))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidMode)
		return
	}
	limit, ok := parseLimit(w, r, h.defaultLimit)
	if !ok {
		return
	}

	snap, err := h.service.GetChallengeLeaderboard(r.Context(), requestIdentity(r), mode, limit)
	if err != nil {
		respondServiceError(w, r, OpGetChallengeLeaderboard, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// HandleSubmitScore merges a score into the caller's best
// @Summary Submit a score
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param X-Scope-ID header string true "Scope"
// @Param X-Username header string true "Username"
// @Param request body SubmitScoreRequest true "Score"
// @Success 200 {object} domain.ScoreSubmission
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/score [post]
func (h *LeaderboardHandler) HandleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if !requireUser(w, r, OpSubmitScore) {
		return
	}

	var req SubmitScoreRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpSubmitScore); err != nil {
		return
	}

	res, err := h.service.SubmitScore(r.Context(), requestIdentity(r), *req.Score)
	if err != nil {
		respondServiceError(w, r, OpSubmitScore, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
