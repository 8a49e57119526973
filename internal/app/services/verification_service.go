package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/email"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/throttle"
)

// VerificationService issues one-time voting codes to roster members
type VerificationService struct {
	elections ElectionStore
	roster    RosterStore
	codes     CodeStore
	mailer    Mailer
	limiter   *throttle.Limiter
	codeTTL   time.Duration
	logger    zerolog.Logger
}

// NewVerificationService creates a new verification service instance
func NewVerificationService(
	elections ElectionStore,
	roster RosterStore,
	codes CodeStore,
	mailer Mailer,
	limiter *throttle.Limiter,
	codeTTL time.Duration,
	logger zerolog.Logger,
) *VerificationService {
	return &VerificationService{
		elections: elections,
		roster:    roster,
		codes:     codes,
		mailer:    mailer,
		limiter:   limiter,
		codeTTL:   codeTTL,
		logger:    logger,
	}
}

// RequestCode verifies a voter against the roster and emails them a fresh
// one-time code. Issuing a new code invalidates any prior one. Returns the
// masked email the code was sent to.
//
// An email not matching the roster entry reports NotOnRoster rather than a
// distinct error, so the endpoint cannot be used to probe which addresses are
// registered.
func (s *VerificationService) RequestCode(ctx context.Context, electionID int64, externalID, emailAddr string) (string, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return "", err
	}
	if !election.IsActive() {
		return "", apperrors.ErrElectionNotActive
	}

	entry, err := s.roster.FindByExternalID(ctx, electionID, strings.TrimSpace(externalID))
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(strings.TrimSpace(emailAddr), entry.Email) {
		return "", apperrors.ErrNotOnRoster
	}

	if entry.HasVoted {
		return "", apperrors.ErrAlreadyVoted
	}

	throttleKey := fmt.Sprintf("%d:%s", electionID, entry.ExternalID)
	if !s.limiter.Allow(throttleKey) {
		return "", apperrors.ErrCodeRequestThrottled
	}

	code, err := email.GenerateVotingCode()
	if err != nil {
		return "", fmt.Errorf("error generating voting code: %w", err)
	}

	// Opportunistic cleanup; expiry is enforced at read time regardless
	if err := s.codes.DeleteExpired(ctx, electionID); err != nil {
		s.logger.Warn().Err(err).Int64("electionId", electionID).Msg("Failed to sweep expired codes")
	}

	now := time.Now()
	record := &models.VerificationCode{
		ElectionID: electionID,
		ExternalID: entry.ExternalID,
		Email:      entry.Email,
		Code:       code,
		ExpiresAt:  now.Add(s.codeTTL),
		CreatedAt:  now,
	}
	if err := s.codes.Issue(ctx, record); err != nil {
		return "", fmt.Errorf("error issuing verification code: %w", err)
	}

	if err := s.mailer.SendVotingCode(entry.Email, entry.FullName, code, election.Title); err != nil {
		return "", fmt.Errorf("error sending voting code: %w", err)
	}

	s.logger.Info().
		Int64("electionId", electionID).
		Str("externalId", entry.ExternalID).
		Msg("Voting code issued")

	return MaskEmail(entry.Email), nil
}

// LookupValidCode checks a submitted code against the store without consuming
// it. Consumption happens only inside the cast transaction, so a voter whose
// ballot fails validation can retry with the same code until it expires.
func (s *VerificationService) LookupValidCode(ctx context.Context, electionID int64, externalID, code string) (*models.VerificationCode, error) {
	return s.codes.FindValid(ctx, electionID, strings.TrimSpace(externalID), strings.TrimSpace(code))
}

// MaskEmail hides an address for display, keeping the first rune of the local
// part and of the domain label: "jdoe@example.edu" becomes "j***@e***.edu".
func MaskEmail(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return "***"
	}

	local := addr[:at]
	domain := addr[at+1:]

	masked := string([]rune(local)[0]) + "***@"

	dot := strings.LastIndex(domain, ".")
	if dot <= 0 {
		return masked + "***"
	}

	return masked + string([]rune(domain[:dot])[0]) + "***" + domain[dot:]
}
