package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/db"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// VerificationCodeRepository handles database operations for one-time voting codes
type VerificationCodeRepository struct {
	db *db.PostgresDB
}

// NewVerificationCodeRepository creates a new VerificationCodeRepository
func NewVerificationCodeRepository(db *db.PostgresDB) *VerificationCodeRepository {
	return &VerificationCodeRepository{db: db}
}

// Issue replaces the voter's live code in one transaction: any prior code is
// deleted, then the new one inserted. The schema's UNIQUE(election_id,
// external_id) makes the swap the only way to refresh a code.
func (r *VerificationCodeRepository) Issue(ctx context.Context, code *models.VerificationCode) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.DeleteByVoter(ctx, tx, code.ElectionID, code.ExternalID); err != nil {
			return err
		}

		query := squirrel.Insert("verification_codes").
			Columns("election_id", "external_id", "email", "code", "expires_at", "created_at").
			Values(code.ElectionID, code.ExternalID, code.Email, code.Code, code.ExpiresAt, code.CreatedAt).
			Suffix("RETURNING id").
			PlaceholderFormat(squirrel.Dollar)

		sql, args, err := query.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&code.ID); err != nil {
			return fmt.Errorf("error issuing verification code: %w", err)
		}

		return nil
	})
}

// FindValid retrieves a matching, unexpired code. The code record is not
// touched: deletion happens only inside the cast transaction, so a verified
// voter whose selection fails validation can retry until expiry.
func (r *VerificationCodeRepository) FindValid(ctx context.Context, electionID int64, externalID, code string) (*models.VerificationCode, error) {
	query := squirrel.Select("id", "election_id", "external_id", "email", "code", "expires_at", "created_at").
		From("verification_codes").
		Where(squirrel.Eq{"election_id": electionID, "external_id": externalID, "code": code}).
		Where(squirrel.Gt{"expires_at": time.Now()}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var record models.VerificationCode
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(
		&record.ID,
		&record.ElectionID,
		&record.ExternalID,
		&record.Email,
		&record.Code,
		&record.ExpiresAt,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidOrExpiredCode
		}
		return nil, fmt.Errorf("error looking up verification code: %w", err)
	}

	return &record, nil
}

// DeleteByVoter removes any live code for a voter. Issuing a fresh code always
// goes through here first, so the previous code stops validating.
func (r *VerificationCodeRepository) DeleteByVoter(ctx context.Context, q Execer, electionID int64, externalID string) error {
	query := squirrel.Delete("verification_codes").
		Where(squirrel.Eq{"election_id": electionID, "external_id": externalID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting verification code: %w", err)
	}

	return nil
}

// DeleteExpired removes lapsed codes for an election. Expiry is enforced at
// read time; this is opportunistic cleanup only.
func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, electionID int64) error {
	query := squirrel.Delete("verification_codes").
		Where(squirrel.Eq{"election_id": electionID}).
		Where(squirrel.Lt{"expires_at": time.Now()}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting expired codes: %w", err)
	}

	return nil
}
