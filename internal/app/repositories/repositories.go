package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ashetian/sdc-web-sub003/internal/db"
)

// Execer is satisfied by both *pgxpool.Pool and pgx.Tx, so single-statement
// repository methods can run standalone or inside the cast transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	ElectionRepository         *ElectionRepository
	CandidateRepository        *CandidateRepository
	RosterRepository           *RosterRepository
	VerificationCodeRepository *VerificationCodeRepository
	BallotRepository           *BallotRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	roster := NewRosterRepository(database)
	codes := NewVerificationCodeRepository(database)
	return &Repositories{
		ElectionRepository:         NewElectionRepository(database),
		CandidateRepository:        NewCandidateRepository(database),
		RosterRepository:           roster,
		VerificationCodeRepository: codes,
		BallotRepository:           NewBallotRepository(database, roster, codes),
	}
}
