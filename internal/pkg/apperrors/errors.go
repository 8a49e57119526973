package apperrors

import "errors"

// Voting errors
var (
	ErrElectionNotActive    = errors.New("election is not active")
	ErrNotOnRoster          = errors.New("voter not on roster")
	ErrAlreadyVoted         = errors.New("voter has already voted")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")
	ErrNoValidSelection     = errors.New("no valid candidate selection")
	ErrDuplicateBallot      = errors.New("duplicate ballot")
	ErrCodeRequestThrottled = errors.New("verification code requested too recently")
)

// Tally errors
var (
	ErrNoCandidates = errors.New("no candidates configured")
)

// Election administration errors
var (
	ErrElectionNotFound    = errors.New("election not found")
	ErrCandidateNotFound   = errors.New("candidate not found")
	ErrElectionNotEditable = errors.New("election can no longer be edited")
	ErrInvalidTransition   = errors.New("invalid election status transition")
)

// Staff authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a new custom error for failed validation with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
