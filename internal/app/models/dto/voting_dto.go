package dto

// VerifyVoterRequest asks for a one-time voting code. The email must match the
// roster's on-file contact for the external identity.
type VerifyVoterRequest struct {
	ExternalID string `json:"externalId" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
}

// VerifyVoterResponse reports where the code was sent, masked
type VerifyVoterResponse struct {
	MaskedEmail string `json:"maskedEmail" example:"j***@c***.edu"`
}

// CastVoteRequest submits a verified voter's ranked choices
type CastVoteRequest struct {
	ExternalID         string  `json:"externalId" binding:"required"`
	Code               string  `json:"code" binding:"required,len=6"`
	RankedCandidateIDs []int64 `json:"rankedCandidateIds" binding:"required"`
}

// CastVoteResponse acknowledges an accepted ballot
type CastVoteResponse struct {
	Success bool `json:"success" example:"true"`
}
