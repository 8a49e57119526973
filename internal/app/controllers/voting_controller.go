package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashetian/sdc-web-sub003/internal/app/models/dto"
	"github.com/ashetian/sdc-web-sub003/internal/app/services"
	"github.com/ashetian/sdc-web-sub003/internal/middleware"
)

// VotingController handles the public voter-facing operations
type VotingController struct {
	verificationService *services.VerificationService
	castingService      *services.CastingService
}

// NewVotingController creates a new VotingController
func NewVotingController(verificationService *services.VerificationService, castingService *services.CastingService) *VotingController {
	return &VotingController{
		verificationService: verificationService,
		castingService:      castingService,
	}
}

// VerifyVoter requests a one-time voting code
// @Summary Request a voting code
// @Description Verifies a member against the election roster and emails them a one-time voting code
// @Tags voting
// @Accept json
// @Produce json
// @Param id path int true "Election ID"
// @Param request body dto.VerifyVoterRequest true "Member identity"
// @Success 202 {object} dto.APIResponse{data=dto.VerifyVoterResponse} "Code sent"
// @Failure 400 {object} dto.ErrorResponse "Election not active or member already voted"
// @Failure 404 {object} dto.ErrorResponse "Not eligible for this election"
// @Failure 429 {object} dto.ErrorResponse "Code requested too recently"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /elections/{id}/verify [post]
func (c *VotingController) VerifyVoter(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	var req dto.VerifyVoterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid verification request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	maskedEmail, err := c.verificationService.RequestCode(ctx, electionID, req.ExternalID, req.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.APIResponse{
		Data: dto.VerifyVoterResponse{MaskedEmail: maskedEmail},
	})
}

// CastVote submits a ballot
// @Summary Cast a ballot
// @Description Validates the voting code and records the anonymous ballot
// @Tags voting
// @Accept json
// @Produce json
// @Param id path int true "Election ID"
// @Param request body dto.CastVoteRequest true "Code and ranked candidate IDs"
// @Success 200 {object} dto.APIResponse{data=dto.CastVoteResponse} "Ballot recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid code, selection, or election state"
// @Failure 404 {object} dto.ErrorResponse "Not eligible for this election"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /elections/{id}/vote [post]
func (c *VotingController) CastVote(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	var req dto.CastVoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid vote request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.castingService.CastBallot(ctx, electionID, req.ExternalID, req.Code, req.RankedCandidateIDs); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.CastVoteResponse{Success: true},
	})
}

// parseElectionID reads the :id path parameter, answering 400 on garbage
func parseElectionID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid election ID")
		errorDetail = errorDetail.WithDetails("Election ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
