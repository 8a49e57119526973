package models

// Candidate defines the candidate model based on the 'candidates' table.
// Candidates are immutable once the election leaves draft.
type Candidate struct {
	ID           int64   `json:"id" db:"id" example:"3"`
	ElectionID   int64   `json:"electionId" db:"election_id" example:"1"`
	Name         string  `json:"name" db:"name" example:"Jane Doe"`
	DisplayOrder int     `json:"displayOrder" db:"display_order" example:"1"`
	PhotoURL     *string `json:"photoUrl,omitempty" db:"photo_url"` // Optional display photo (nullable)
}
