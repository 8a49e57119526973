package models

import (
	"time"

	"github.com/google/uuid"
)

// Ballot defines the anonymized vote, based on the 'ballots' table.
//
// VoterToken is a keyed one-way hash of the voter's external identity; it is
// deterministic so a second ballot from the same voter collides on the
// (election_id, voter_token) unique index, but it cannot be joined back to a
// RosterEntry. The table deliberately carries no roster foreign key and no
// cast timestamp: the random UUID primary key avoids ordering ballots by
// insertion.
type Ballot struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ElectionID int64     `json:"electionId" db:"election_id"`
	VoterToken string    `json:"-" db:"voter_token"`
	Rankings   []int64   `json:"rankings" db:"rankings"` // Candidate IDs in preference order
}

// VerificationCode defines a one-time voting code, based on the
// 'verification_codes' table. At most one live code exists per
// (election_id, external_id); issuing a new code replaces the old one.
// Consumed codes are deleted, never flagged.
type VerificationCode struct {
	ID         int64     `json:"id" db:"id"`
	ElectionID int64     `json:"electionId" db:"election_id"`
	ExternalID string    `json:"externalId" db:"external_id"`
	Email      string    `json:"email" db:"email"`
	Code       string    `json:"-" db:"code"`
	ExpiresAt  time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
