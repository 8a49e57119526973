package models

import (
	"time"
)

// ElectionStatus defines the lifecycle state of an election
type ElectionStatus string

const (
	ElectionDraft     ElectionStatus = "draft"
	ElectionActive    ElectionStatus = "active"
	ElectionSuspended ElectionStatus = "suspended"
	ElectionClosed    ElectionStatus = "closed"
)

// TallyMode defines how ballots are tabulated
type TallyMode string

const (
	ModePlurality    TallyMode = "plurality"
	ModeRankedChoice TallyMode = "ranked_choice"
)

// Election defines the election model based on the 'elections' table
type Election struct {
	ID              int64          `json:"id" db:"id" example:"1"`                       // Unique identifier for the election
	Title           string         `json:"title" db:"title" example:"Board Election"`    // Display title
	Status          ElectionStatus `json:"status" db:"status" example:"active"`          // Current lifecycle state
	Mode            TallyMode      `json:"mode" db:"mode" example:"ranked_choice"`       // Tabulation mode
	SuspendedReason *string        `json:"suspendedReason,omitempty" db:"suspended_reason"` // Reason for mid-poll suspension (nullable)
	SuspendedAt     *time.Time     `json:"suspendedAt,omitempty" db:"suspended_at"`      // Timestamp of suspension (nullable)
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Candidates []*Candidate `json:"candidates,omitempty"`
}

// IsActive reports whether ballots may currently be cast
func (e *Election) IsActive() bool {
	return e.Status == ElectionActive
}
