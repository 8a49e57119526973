package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/db"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// ElectionRepository handles database operations for elections
type ElectionRepository struct {
	db *db.PostgresDB
}

// NewElectionRepository creates a new election repository
func NewElectionRepository(db *db.PostgresDB) *ElectionRepository {
	return &ElectionRepository{
		db: db,
	}
}

// Create creates a new election in draft status
func (r *ElectionRepository) Create(ctx context.Context, election *models.Election) error {
	query := `
		INSERT INTO elections (title, status, mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	err := r.db.Pool.QueryRow(ctx, query, election.Title, election.Status, election.Mode, now).
		Scan(&election.ID, &election.CreatedAt, &election.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating election: %w", err)
	}

	return nil
}

// GetByID retrieves an election by ID
func (r *ElectionRepository) GetByID(ctx context.Context, id int64) (*models.Election, error) {
	query := `
		SELECT id, title, status, mode, suspended_reason, suspended_at, created_at, updated_at
		FROM elections
		WHERE id = $1
	`

	var election models.Election
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&election.ID,
		&election.Title,
		&election.Status,
		&election.Mode,
		&election.SuspendedReason,
		&election.SuspendedAt,
		&election.CreatedAt,
		&election.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrElectionNotFound
		}
		return nil, fmt.Errorf("error retrieving election: %w", err)
	}

	return &election, nil
}

// GetAll retrieves all elections, newest first
func (r *ElectionRepository) GetAll(ctx context.Context) ([]*models.Election, error) {
	query := `
		SELECT id, title, status, mode, suspended_reason, suspended_at, created_at, updated_at
		FROM elections
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var elections []*models.Election
	for rows.Next() {
		var election models.Election
		if err := rows.Scan(
			&election.ID,
			&election.Title,
			&election.Status,
			&election.Mode,
			&election.SuspendedReason,
			&election.SuspendedAt,
			&election.CreatedAt,
			&election.UpdatedAt,
		); err != nil {
			return nil, err
		}
		elections = append(elections, &election)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return elections, nil
}

// Update updates title and mode of an existing election
func (r *ElectionRepository) Update(ctx context.Context, election *models.Election) error {
	query := `
		UPDATE elections
		SET title = $1, mode = $2, updated_at = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Pool.Exec(ctx, query, election.Title, election.Mode, time.Now(), election.ID)
	if err != nil {
		return fmt.Errorf("error updating election: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrElectionNotFound
	}

	return nil
}

// UpdateStatus sets the election status, clearing suspension metadata when
// the election leaves the suspended state
func (r *ElectionRepository) UpdateStatus(ctx context.Context, id int64, status models.ElectionStatus) error {
	query := `
		UPDATE elections
		SET status = $1,
		    suspended_reason = CASE WHEN $1 = 'suspended' THEN suspended_reason ELSE NULL END,
		    suspended_at = CASE WHEN $1 = 'suspended' THEN suspended_at ELSE NULL END,
		    updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Pool.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating election status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrElectionNotFound
	}

	return nil
}

// Suspend marks an election suspended with a reason and timestamp
func (r *ElectionRepository) Suspend(ctx context.Context, id int64, reason string) error {
	query := `
		UPDATE elections
		SET status = 'suspended', suspended_reason = $1, suspended_at = $2, updated_at = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Pool.Exec(ctx, query, reason, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error suspending election: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrElectionNotFound
	}

	return nil
}
