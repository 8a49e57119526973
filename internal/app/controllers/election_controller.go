package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/app/models/dto"
	"github.com/ashetian/sdc-web-sub003/internal/app/services"
	"github.com/ashetian/sdc-web-sub003/internal/middleware"
)

// ElectionController handles election reads and the staff administration surface
type ElectionController struct {
	electionService *services.ElectionService
}

// NewElectionController creates a new ElectionController
func NewElectionController(electionService *services.ElectionService) *ElectionController {
	return &ElectionController{
		electionService: electionService,
	}
}

// GetElection retrieves an election with its candidates
// @Summary Get election
// @Description Retrieves an election's title, status, mode and candidate list
// @Tags elections
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} dto.APIResponse{data=dto.ElectionResponse} "Election retrieved"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /elections/{id} [get]
func (c *ElectionController) GetElection(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	election, err := c.electionService.GetElection(ctx, electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ElectionResponse{
			ID:         election.ID,
			Title:      election.Title,
			Status:     election.Status,
			Mode:       election.Mode,
			Candidates: election.Candidates,
		},
	})
}

// GetResults retrieves turnout statistics and the tally
// @Summary Get election results
// @Description Retrieves turnout statistics, tally rounds and the winner
// @Tags elections
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} dto.APIResponse{data=dto.ElectionResultsResponse} "Results retrieved"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Failure 409 {object} dto.ErrorResponse "Election has no candidates"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /elections/{id}/results [get]
func (c *ElectionController) GetResults(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	results, err := c.electionService.Results(ctx, electionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: results})
}

// ListElections retrieves all elections
// @Summary List elections
// @Description Retrieves all elections, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Election} "Elections retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections [get]
func (c *ElectionController) ListElections(ctx *gin.Context) {
	elections, err := c.electionService.ListElections(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: elections})
}

// CreateElection creates a new draft election
// @Summary Create election
// @Description Creates a new election in draft status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateElectionRequest true "Election title and tally mode"
// @Success 201 {object} dto.APIResponse{data=models.Election} "Election created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections [post]
func (c *ElectionController) CreateElection(ctx *gin.Context) {
	var req dto.CreateElectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid election data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	election, err := c.electionService.CreateElection(ctx, req.Title, req.Mode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: election})
}

// UpdateElection updates a draft election
// @Summary Update election
// @Description Changes title and tally mode of a draft election
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body dto.UpdateElectionRequest true "New title and mode"
// @Success 200 {object} dto.APIResponse{data=models.Election} "Election updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Failure 409 {object} dto.ErrorResponse "Election can no longer be edited"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections/{id} [put]
func (c *ElectionController) UpdateElection(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateElectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid election data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	election, err := c.electionService.UpdateElection(ctx, electionID, req.Title, req.Mode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: election})
}

// SetStatus transitions an election's lifecycle state
// @Summary Change election status
// @Description Moves an election between draft, active and closed; suspension goes through the suspend endpoint
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body dto.SetStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=models.Election} "Status changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections/{id}/status [put]
func (c *ElectionController) SetStatus(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	var req dto.SetStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	election, err := c.electionService.SetStatus(ctx, electionID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: election})
}

// SuspendElection pauses an active election
// @Summary Suspend election
// @Description Pauses an active election, recording the reason and timestamp
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body dto.SuspendElectionRequest true "Suspension reason"
// @Success 200 {object} dto.APIResponse{data=models.Election} "Election suspended"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Failure 409 {object} dto.ErrorResponse "Election is not active"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections/{id}/suspend [post]
func (c *ElectionController) SuspendElection(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	var req dto.SuspendElectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid suspension data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	election, err := c.electionService.SuspendElection(ctx, electionID, req.Reason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: election})
}

// AddCandidate adds a candidate to a draft election
// @Summary Add candidate
// @Description Adds a candidate to a draft election
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body dto.CandidateRequest true "Candidate information"
// @Success 201 {object} dto.APIResponse{data=models.Candidate} "Candidate added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Failure 409 {object} dto.ErrorResponse "Election can no longer be edited"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections/{id}/candidates [post]
func (c *ElectionController) AddCandidate(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	var req dto.CandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid candidate data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	candidate := &models.Candidate{
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		PhotoURL:     req.PhotoURL,
	}
	if err := c.electionService.AddCandidate(ctx, electionID, candidate); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: candidate})
}

// UpdateCandidate updates a candidate of a draft election
// @Summary Update candidate
// @Description Updates a candidate of a draft election
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidateId path int true "Candidate ID"
// @Param request body dto.CandidateRequest true "Candidate information"
// @Success 200 {object} dto.APIResponse{data=models.Candidate} "Candidate updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "Election can no longer be edited"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections/{id}/candidates/{candidateId} [put]
func (c *ElectionController) UpdateCandidate(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}
	candidateID, ok := parseCandidateID(ctx)
	if !ok {
		return
	}

	var req dto.CandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid candidate data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	candidate := &models.Candidate{
		ID:           candidateID,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		PhotoURL:     req.PhotoURL,
	}
	if err := c.electionService.UpdateCandidate(ctx, electionID, candidate); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: candidate})
}

// RemoveCandidate removes a candidate from a draft election
// @Summary Remove candidate
// @Description Removes a candidate from a draft election
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param candidateId path int true "Candidate ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Candidate removed"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "Election can no longer be edited"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections/{id}/candidates/{candidateId} [delete]
func (c *ElectionController) RemoveCandidate(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}
	candidateID, ok := parseCandidateID(ctx)
	if !ok {
		return
	}

	if err := c.electionService.RemoveCandidate(ctx, electionID, candidateID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Candidate removed"},
	})
}

// ImportRoster replaces the roster of a draft election
// @Summary Import roster
// @Description Replaces the electorate of a draft election with the posted rows
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body dto.ImportRosterRequest true "Roster rows"
// @Success 200 {object} dto.APIResponse{data=dto.RosterImportSummary} "Roster imported"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Election not found"
// @Failure 409 {object} dto.ErrorResponse "Election can no longer be edited"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/elections/{id}/roster [put]
func (c *ElectionController) ImportRoster(ctx *gin.Context) {
	electionID, ok := parseElectionID(ctx)
	if !ok {
		return
	}

	var req dto.ImportRosterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid roster data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	summary, err := c.electionService.ImportRoster(ctx, electionID, req.Rows)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: summary})
}

// parseCandidateID reads the :candidateId path parameter
func parseCandidateID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("candidateId"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid candidate ID")
		errorDetail = errorDetail.WithDetails("Candidate ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
