package dto

import (
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Voting errors
	ErrorCodeElectionNotActive ErrorCode = "VOTE_001"
	ErrorCodeNotOnRoster       ErrorCode = "VOTE_002"
	ErrorCodeAlreadyVoted      ErrorCode = "VOTE_003"
	ErrorCodeInvalidCode       ErrorCode = "VOTE_004"
	ErrorCodeNoValidSelection  ErrorCode = "VOTE_005"
	ErrorCodeDuplicateBallot   ErrorCode = "VOTE_006"
	ErrorCodeThrottled         ErrorCode = "VOTE_007"

	// Election administration errors
	ErrorCodeElectionNotFound    ErrorCode = "ELEC_001"
	ErrorCodeCandidateNotFound   ErrorCode = "ELEC_002"
	ErrorCodeElectionNotEditable ErrorCode = "ELEC_003"
	ErrorCodeInvalidTransition   ErrorCode = "ELEC_004"
	ErrorCodeNoCandidates        ErrorCode = "ELEC_005"

	// Staff authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_002"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_003"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_004"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityInfo     ErrorSeverity = "INFO"
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"VOTE_003"`
	Message  string        `json:"message" example:"This member has already voted"`
	Field    string        `json:"field,omitempty" example:"externalId"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-05-12T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
