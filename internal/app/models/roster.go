package models

// RosterEntry defines one eligible voter of an election, based on the
// 'roster_entries' table. Unique on (election_id, external_id). HasVoted is
// monotonic: it flips false to true inside the cast transaction and is never
// reset while the election exists.
type RosterEntry struct {
	ID         int64   `json:"id" db:"id"`
	ElectionID int64   `json:"electionId" db:"election_id"`
	ExternalID string  `json:"externalId" db:"external_id" example:"20210213"` // Student/member number
	Email      string  `json:"email" db:"email" example:"jane@club.edu"`       // On-file contact address
	FullName   string  `json:"fullName" db:"full_name" example:"Jane Doe"`
	Department *string `json:"department,omitempty" db:"department"` // Optional display metadata
	Phone      *string `json:"phone,omitempty" db:"phone"`           // Optional display metadata
	HasVoted   bool    `json:"hasVoted" db:"has_voted"`
}
