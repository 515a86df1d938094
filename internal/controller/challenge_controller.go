package controller

import (
	"greenquest_backend/internal/service"
	"greenquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService     *service.ChallengeService
	ParticipationService *service.ParticipationService
	LeaderboardService   *service.LeaderboardService
}

func NewChallengeController(
	challengeService *service.ChallengeService,
	participationService *service.ParticipationService,
	leaderboardService *service.LeaderboardService,
) *ChallengeController {
	return &ChallengeController{
		ChallengeService:     challengeService,
		ParticipationService: participationService,
		LeaderboardService:   leaderboardService,
	}
}

// Create godoc
// @Summary Create a challenge
// @Description Creates an active challenge; requires a challenge-creator role
// @Tags challenges
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ChallengeRequest true "Challenge fields"
// @Success 201 {object} util.Response{data=model.Challenge} "Created"
// @Failure 400 {object} util.Response "Validation failed"
// @Failure 403 {object} util.Response "Role may not create challenges"
// @Router /api/challenges [post]
func (c *ChallengeController) Create(ctx *gin.Context) {
	var req service.ChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	challenge, err := c.ChallengeService.Create(user.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, challenge)
}

// ListActive godoc
// @Summary List joinable challenges
// @Tags challenges
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Challenge} "Active challenges"
// @Router /api/challenges/active [get]
func (c *ChallengeController) ListActive(ctx *gin.Context) {
	challenges, err := c.ChallengeService.ListActive()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, challenges)
}

// ListCreated godoc
// @Summary Challenges created by the caller
// @Tags challenges
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Challenge} "Challenges"
// @Router /api/creator/challenges [get]
func (c *ChallengeController) ListCreated(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	challenges, err := c.ChallengeService.ListByCreator(user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, challenges)
}

// Get godoc
// @Summary Challenge details
// @Tags challenges
// @Produce  json
// @Param   id path int true "Challenge ID"
// @Success 200 {object} util.Response{data=model.Challenge} "Challenge"
// @Failure 404 {object} util.Response "Challenge not found"
// @Router /api/challenges/{id} [get]
func (c *ChallengeController) Get(ctx *gin.Context) {
	challenge, err := c.ChallengeService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, challenge)
}

// End godoc
// @Summary End a challenge
// @Description Marks the challenge inactive; creator or admin only
// @Tags challenges
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Success 200 {object} util.Response "Ended"
// @Failure 403 {object} util.Response "Not the creator"
// @Failure 404 {object} util.Response "Challenge not found"
// @Router /api/challenges/{id}/end [post]
func (c *ChallengeController) End(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if err := c.ChallengeService.End(util.MustParseUint(ctx.Param("id")), user.UserID); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Join godoc
// @Summary Join a challenge
// @Tags challenges
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Success 201 {object} util.Response{data=model.Participation} "Joined"
// @Failure 404 {object} util.Response "Challenge not found"
// @Failure 409 {object} util.Response "Already joined"
// @Failure 422 {object} util.Response "Challenge not active"
// @Router /api/challenges/{id}/join [post]
func (c *ChallengeController) Join(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	participation, err := c.ParticipationService.Join(user.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, participation)
}

type ProgressRequest struct {
	Progress float64 `json:"progress"`
}

// UpdateProgress godoc
// @Summary Report progress
// @Description Updates the caller's progress; completion is settled server-side
// @Tags challenges
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Challenge ID"
// @Param   body body ProgressRequest true "Progress value"
// @Success 200 {object} util.Response{data=model.Participation} "Updated"
// @Failure 422 {object} util.Response "Not participating"
// @Router /api/challenges/{id}/progress [put]
func (c *ChallengeController) UpdateProgress(ctx *gin.Context) {
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := util.GetUserFromContext(ctx)
	participation, err := c.ParticipationService.UpdateProgress(user.UserID, util.MustParseUint(ctx.Param("id")), req.Progress)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, participation)
}

// ListMine godoc
// @Summary My participations
// @Tags challenges
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Participation} "Participations"
// @Router /api/participations/mine [get]
func (c *ChallengeController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	participations, err := c.ParticipationService.ListMine(user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, participations)
}

// Leaderboard godoc
// @Summary Challenge leaderboard
// @Description Top completions ranked by score, earliest completion breaking ties
// @Tags challenges
// @Produce  json
// @Param   id path int true "Challenge ID"
// @Param   limit query int false "Maximum entries (default 10, max 100)"
// @Success 200 {object} util.Response{data=[]service.RankedEntry} "Ranked entries"
// @Router /api/challenges/{id}/leaderboard [get]
func (c *ChallengeController) Leaderboard(ctx *gin.Context) {
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		limit = int(util.MustParseUint(raw))
	}

	entries, err := c.LeaderboardService.Rank(util.MustParseUint(ctx.Param("id")), limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}
