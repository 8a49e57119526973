package repositories

import (
	"context"
	"fmt"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/db"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// CandidateRepository handles database operations for candidates
type CandidateRepository struct {
	db *db.PostgresDB
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *db.PostgresDB) *CandidateRepository {
	return &CandidateRepository{
		db: db,
	}
}

// Create creates a new candidate
func (r *CandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	query := `
		INSERT INTO candidates (election_id, name, display_order, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		candidate.ElectionID, candidate.Name, candidate.DisplayOrder, candidate.PhotoURL).
		Scan(&candidate.ID)
	if err != nil {
		return fmt.Errorf("error creating candidate: %w", err)
	}

	return nil
}

// GetByElection retrieves all candidates of an election in display order
func (r *CandidateRepository) GetByElection(ctx context.Context, electionID int64) ([]*models.Candidate, error) {
	query := `
		SELECT id, election_id, name, display_order, photo_url
		FROM candidates
		WHERE election_id = $1
		ORDER BY display_order, id
	`

	rows, err := r.db.Pool.Query(ctx, query, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		var candidate models.Candidate
		if err := rows.Scan(
			&candidate.ID,
			&candidate.ElectionID,
			&candidate.Name,
			&candidate.DisplayOrder,
			&candidate.PhotoURL,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, &candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}

// ExistsByIDs reports whether every given ID belongs to a candidate of the
// election. Duplicate IDs in the input count once.
func (r *CandidateRepository) ExistsByIDs(ctx context.Context, electionID int64, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	query := `
		SELECT COUNT(DISTINCT id)
		FROM candidates
		WHERE election_id = $1 AND id = ANY($2)
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, electionID, ids).Scan(&count); err != nil {
		return false, fmt.Errorf("error checking candidate IDs: %w", err)
	}

	distinct := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}

	return count == len(distinct), nil
}

// Update updates an existing candidate
func (r *CandidateRepository) Update(ctx context.Context, candidate *models.Candidate) error {
	query := `
		UPDATE candidates
		SET name = $1, display_order = $2, photo_url = $3
		WHERE election_id = $4 AND id = $5
	`

	cmdTag, err := r.db.Pool.Exec(ctx, query,
		candidate.Name, candidate.DisplayOrder, candidate.PhotoURL,
		candidate.ElectionID, candidate.ID)
	if err != nil {
		return fmt.Errorf("error updating candidate: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}

	return nil
}

// Delete deletes a candidate
func (r *CandidateRepository) Delete(ctx context.Context, electionID, id int64) error {
	query := `DELETE FROM candidates WHERE election_id = $1 AND id = $2`

	cmdTag, err := r.db.Pool.Exec(ctx, query, electionID, id)
	if err != nil {
		return fmt.Errorf("error deleting candidate: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}

	return nil
}
