package dto

import (
	"github.com/ashetian/sdc-web-sub003/internal/app/models"
)

// CreateElectionRequest represents the payload for creating an election
type CreateElectionRequest struct {
	Title string           `json:"title" binding:"required"`
	Mode  models.TallyMode `json:"mode" binding:"required,oneof=plurality ranked_choice"`
}

// UpdateElectionRequest represents the payload for updating a draft election
type UpdateElectionRequest struct {
	Title string           `json:"title" binding:"required"`
	Mode  models.TallyMode `json:"mode" binding:"required,oneof=plurality ranked_choice"`
}

// SetStatusRequest represents a staff-driven status transition
type SetStatusRequest struct {
	Status models.ElectionStatus `json:"status" binding:"required,oneof=draft active suspended closed"`
}

// SuspendElectionRequest represents a mid-poll suspension
type SuspendElectionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CandidateRequest represents the payload for creating or updating a candidate
type CandidateRequest struct {
	Name         string  `json:"name" binding:"required"`
	DisplayOrder int     `json:"displayOrder"`
	PhotoURL     *string `json:"photoUrl,omitempty"`
}

// RosterRow is one imported roster line. ExternalID, FullName and Email are
// the minimal schema; the rest is pass-through display metadata.
type RosterRow struct {
	ExternalID string  `json:"externalId"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Department *string `json:"department,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// ImportRosterRequest replaces the roster of a draft election
type ImportRosterRequest struct {
	Rows []RosterRow `json:"rows" binding:"required"`
}

// RosterImportSummary reports what a roster import kept and dropped
type RosterImportSummary struct {
	Imported  int `json:"imported"`
	Dropped   int `json:"dropped"`   // Rows without a usable external identity
	Collapsed int `json:"collapsed"` // Duplicate external IDs collapsed (last occurrence kept)
}

// ElectionResponse is the public view of an election
type ElectionResponse struct {
	ID         int64                 `json:"id"`
	Title      string                `json:"title"`
	Status     models.ElectionStatus `json:"status"`
	Mode       models.TallyMode      `json:"mode"`
	Candidates []*models.Candidate   `json:"candidates,omitempty"`
}

// ElectionStats summarizes turnout for an election
type ElectionStats struct {
	Eligible       int     `json:"eligible"`
	Voted          int     `json:"voted"`
	TurnoutPercent float64 `json:"turnoutPercent"`
}

// CandidateCount is one candidate's standing within a tally round
type CandidateCount struct {
	CandidateID int64   `json:"candidateId"`
	Name        string  `json:"name"`
	Votes       int     `json:"votes"`
	Percent     float64 `json:"percent"`
}

// TallyRound is one round of tabulation
type TallyRound struct {
	Number       int              `json:"number"`
	Counts       []CandidateCount `json:"counts"`
	EliminatedID *int64           `json:"eliminatedId,omitempty"`
	WinnerID     *int64           `json:"winnerId,omitempty"`
}

// ElectionResultsResponse is the full results payload
type ElectionResultsResponse struct {
	Stats        ElectionStats `json:"stats"`
	TotalBallots int           `json:"totalBallots"`
	Rounds       []TallyRound  `json:"rounds"`
	Winner       *int64        `json:"winner"`
}

// AdminLoginRequest carries the staff credential
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminTokenResponse carries the staff session token
type AdminTokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}
