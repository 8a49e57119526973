package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/db"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// RosterRepository handles database operations for roster entries
type RosterRepository struct {
	db *db.PostgresDB
}

// NewRosterRepository creates a new roster repository
func NewRosterRepository(db *db.PostgresDB) *RosterRepository {
	return &RosterRepository{
		db: db,
	}
}

// ReplaceAll replaces the whole roster of an election in one transaction.
// Entries must already be deduplicated on external ID by the caller.
func (r *RosterRepository) ReplaceAll(ctx context.Context, electionID int64, entries []*models.RosterEntry) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM roster_entries WHERE election_id = $1`, electionID); err != nil {
			return fmt.Errorf("error clearing prior roster: %w", err)
		}

		batch := &pgx.Batch{}
		for _, entry := range entries {
			batch.Queue(`
				INSERT INTO roster_entries (election_id, external_id, email, full_name, department, phone)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				electionID, entry.ExternalID, entry.Email, entry.FullName, entry.Department, entry.Phone)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range entries {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("error inserting roster entry: %w", err)
			}
		}

		return nil
	})
}

// FindByExternalID retrieves one roster entry by its external identity
func (r *RosterRepository) FindByExternalID(ctx context.Context, electionID int64, externalID string) (*models.RosterEntry, error) {
	query := `
		SELECT id, election_id, external_id, email, full_name, department, phone, has_voted
		FROM roster_entries
		WHERE election_id = $1 AND external_id = $2
	`

	var entry models.RosterEntry
	err := r.db.Pool.QueryRow(ctx, query, electionID, externalID).Scan(
		&entry.ID,
		&entry.ElectionID,
		&entry.ExternalID,
		&entry.Email,
		&entry.FullName,
		&entry.Department,
		&entry.Phone,
		&entry.HasVoted,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotOnRoster
		}
		return nil, fmt.Errorf("error retrieving roster entry: %w", err)
	}

	return &entry, nil
}

// CountEligible counts all roster entries of an election
func (r *RosterRepository) CountEligible(ctx context.Context, electionID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM roster_entries WHERE election_id = $1`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting eligible voters: %w", err)
	}
	return count, nil
}

// CountVoted counts roster entries that have cast a ballot
func (r *RosterRepository) CountVoted(ctx context.Context, electionID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM roster_entries WHERE election_id = $1 AND has_voted = TRUE`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting voted entries: %w", err)
	}
	return count, nil
}

// MarkVoted flips the has_voted flag false-to-true. The conditional update is
// the serialization point for concurrent casts: zero rows affected means the
// flag was already set and the cast must fail with AlreadyVoted. The Execer
// lets the cast transaction run this on its own pgx.Tx.
func (r *RosterRepository) MarkVoted(ctx context.Context, q Execer, electionID int64, externalID string) error {
	cmdTag, err := q.Exec(ctx, `
		UPDATE roster_entries
		SET has_voted = TRUE
		WHERE election_id = $1 AND external_id = $2 AND has_voted = FALSE`,
		electionID, externalID)
	if err != nil {
		return fmt.Errorf("error marking roster entry voted: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyVoted
	}

	return nil
}
