package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/db"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations
const pgUniqueViolation = "23505"

// BallotRepository handles database operations for anonymous ballots,
// including the atomic cast unit that joins ballot insertion, the roster flag
// flip and code consumption.
type BallotRepository struct {
	db     *db.PostgresDB
	roster *RosterRepository
	codes  *VerificationCodeRepository
}

// NewBallotRepository creates a new ballot repository
func NewBallotRepository(db *db.PostgresDB, roster *RosterRepository, codes *VerificationCodeRepository) *BallotRepository {
	return &BallotRepository{
		db:     db,
		roster: roster,
		codes:  codes,
	}
}

// CastAtomic applies the three cast effects as one transaction: insert the
// anonymous ballot, flip the roster entry's has_voted flag, delete the
// consumed code. A voter-token collision maps to DuplicateBallot and an
// already-set roster flag to AlreadyVoted; either aborts the whole unit.
func (r *BallotRepository) CastAtomic(ctx context.Context, ballot *models.Ballot, externalID, code string) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO ballots (id, election_id, voter_token, rankings)
			VALUES ($1, $2, $3, $4)`,
			ballot.ID, ballot.ElectionID, ballot.VoterToken, ballot.Rankings)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return apperrors.ErrDuplicateBallot
			}
			return fmt.Errorf("error inserting ballot: %w", err)
		}

		if err := r.roster.MarkVoted(ctx, tx, ballot.ElectionID, externalID); err != nil {
			return err
		}

		if err := r.codes.DeleteByVoter(ctx, tx, ballot.ElectionID, externalID); err != nil {
			return err
		}

		return nil
	})
}

// CountByElection counts all ballots of an election
func (r *BallotRepository) CountByElection(ctx context.Context, electionID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ballots WHERE election_id = $1`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting ballots: %w", err)
	}
	return count, nil
}

// ListRankings returns the ranked candidate IDs of every ballot in an
// election. Only the rankings leave the store: tallying never sees tokens.
func (r *BallotRepository) ListRankings(ctx context.Context, electionID int64) ([][]int64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT rankings FROM ballots WHERE election_id = $1`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ballots [][]int64
	for rows.Next() {
		var rankings []int64
		if err := rows.Scan(&rankings); err != nil {
			return nil, err
		}
		ballots = append(ballots, rankings)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ballots, nil
}
