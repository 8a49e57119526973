package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ashetian/sdc-web-sub003/internal/app/models/dto"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses.
//
// NotOnRoster deliberately answers 404 so the verification endpoint cannot be
// used to enumerate the electorate.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotOnRoster):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNotOnRoster, "Not eligible for this election"),
		})
	case errors.Is(err, apperrors.ErrElectionNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeElectionNotFound, "Election not found"),
		})
	case errors.Is(err, apperrors.ErrCandidateNotFound):
		c.JSON(404, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeCandidateNotFound, "Candidate not found"),
		})
	case errors.Is(err, apperrors.ErrElectionNotActive):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeElectionNotActive, "Election is not accepting ballots"),
		})
	case errors.Is(err, apperrors.ErrAlreadyVoted):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeAlreadyVoted, "This member has already voted"),
		})
	case errors.Is(err, apperrors.ErrInvalidOrExpiredCode):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCode, "Invalid or expired verification code"),
		})
	case errors.Is(err, apperrors.ErrNoValidSelection):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNoValidSelection, "Ballot contains no valid candidate selection"),
		})
	case errors.Is(err, apperrors.ErrDuplicateBallot):
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeDuplicateBallot, "A ballot has already been recorded for this voter"),
		})
	case errors.Is(err, apperrors.ErrCodeRequestThrottled):
		c.JSON(429, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeThrottled, "Verification code requested too recently"),
		})
	case errors.Is(err, apperrors.ErrNoCandidates):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeNoCandidates, "Election has no candidates"),
		})
	case errors.Is(err, apperrors.ErrElectionNotEditable):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeElectionNotEditable, "Election can no longer be edited"),
		})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(409, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, "Invalid election status transition"),
		})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials"),
		})
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		})
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(401, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		})
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		message := "Validation failed"
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		c.JSON(400, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message),
		})
	default:
		c.JSON(500, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		})
	}
}
