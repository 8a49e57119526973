package services

import (
	"context"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
)

// Store interfaces consumed by the services. The concrete repositories in
// internal/app/repositories satisfy them; tests substitute in-memory fakes.

// ElectionStore persists elections
type ElectionStore interface {
	Create(ctx context.Context, election *models.Election) error
	GetByID(ctx context.Context, id int64) (*models.Election, error)
	GetAll(ctx context.Context) ([]*models.Election, error)
	Update(ctx context.Context, election *models.Election) error
	UpdateStatus(ctx context.Context, id int64, status models.ElectionStatus) error
	Suspend(ctx context.Context, id int64, reason string) error
}

// CandidateStore persists candidates
type CandidateStore interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	GetByElection(ctx context.Context, electionID int64) ([]*models.Candidate, error)
	ExistsByIDs(ctx context.Context, electionID int64, ids []int64) (bool, error)
	Update(ctx context.Context, candidate *models.Candidate) error
	Delete(ctx context.Context, electionID, id int64) error
}

// RosterStore persists roster entries
type RosterStore interface {
	ReplaceAll(ctx context.Context, electionID int64, entries []*models.RosterEntry) error
	FindByExternalID(ctx context.Context, electionID int64, externalID string) (*models.RosterEntry, error)
	CountEligible(ctx context.Context, electionID int64) (int, error)
	CountVoted(ctx context.Context, electionID int64) (int, error)
}

// CodeStore persists one-time voting codes
type CodeStore interface {
	Issue(ctx context.Context, code *models.VerificationCode) error
	FindValid(ctx context.Context, electionID int64, externalID, code string) (*models.VerificationCode, error)
	DeleteExpired(ctx context.Context, electionID int64) error
}

// BallotStore persists anonymous ballots
type BallotStore interface {
	CastAtomic(ctx context.Context, ballot *models.Ballot, externalID, code string) error
	CountByElection(ctx context.Context, electionID int64) (int, error)
	ListRankings(ctx context.Context, electionID int64) ([][]int64, error)
}

// Mailer delivers voting codes
type Mailer interface {
	SendVotingCode(toEmail, toName, code, electionTitle string) error
}
