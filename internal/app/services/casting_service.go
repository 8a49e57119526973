package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// CastingService accepts verified ballots. It never persists any link between
// a ballot and the roster entry that produced it: the voter token written to
// the ballot is a keyed hash that cannot be reversed without the server secret.
type CastingService struct {
	elections  ElectionStore
	roster     RosterStore
	candidates CandidateStore
	codes      CodeStore
	ballots    BallotStore
	secret     string
	logger     zerolog.Logger
}

// NewCastingService creates a new casting service instance
func NewCastingService(
	elections ElectionStore,
	roster RosterStore,
	candidates CandidateStore,
	codes CodeStore,
	ballots BallotStore,
	secret string,
	logger zerolog.Logger,
) *CastingService {
	return &CastingService{
		elections:  elections,
		roster:     roster,
		candidates: candidates,
		codes:      codes,
		ballots:    ballots,
		secret:     secret,
		logger:     logger,
	}
}

// CastBallot validates a voter's code and selection and records the ballot.
// The three write effects (ballot insert, roster flag flip, code delete) are
// applied atomically by the ballot store; the roster checks here are fast
// pre-checks only and the conditional flag update inside the transaction is
// what actually serializes concurrent casts.
func (s *CastingService) CastBallot(ctx context.Context, electionID int64, externalID, code string, rankedIDs []int64) error {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return err
	}
	if !election.IsActive() {
		return apperrors.ErrElectionNotActive
	}

	externalID = strings.TrimSpace(externalID)
	entry, err := s.roster.FindByExternalID(ctx, electionID, externalID)
	if err != nil {
		return err
	}

	// The code is checked before the voted flag: a stale code reports as
	// invalid even when the voter has already cast.
	if _, err := s.codes.FindValid(ctx, electionID, externalID, strings.TrimSpace(code)); err != nil {
		return err
	}

	if entry.HasVoted {
		return apperrors.ErrAlreadyVoted
	}

	rankings, err := s.normalizeSelection(ctx, electionID, rankedIDs)
	if err != nil {
		return err
	}

	ballot := &models.Ballot{
		ID:         uuid.New(),
		ElectionID: electionID,
		VoterToken: VoterToken(s.secret, electionID, externalID),
		Rankings:   rankings,
	}

	if err := s.ballots.CastAtomic(ctx, ballot, externalID, code); err != nil {
		return err
	}

	// Log carries the election only. The external ID must not appear next to
	// anything derivable from the ballot.
	s.logger.Info().Int64("electionId", electionID).Msg("Ballot recorded")

	return nil
}

// normalizeSelection collapses repeated candidate IDs, keeping the first
// occurrence of each, and rejects selections that are empty afterwards or that
// name an ID which is not a candidate of the election. The returned slice is
// what gets recorded.
func (s *CastingService) normalizeSelection(ctx context.Context, electionID int64, rankedIDs []int64) ([]int64, error) {
	seen := make(map[int64]struct{}, len(rankedIDs))
	rankings := make([]int64, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rankings = append(rankings, id)
	}

	if len(rankings) == 0 {
		return nil, apperrors.ErrNoValidSelection
	}

	ok, err := s.candidates.ExistsByIDs(ctx, electionID, rankings)
	if err != nil {
		return nil, fmt.Errorf("error validating selection: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrNoValidSelection
	}

	return rankings, nil
}

// VoterToken derives the anonymous ballot token for a voter. The election ID
// is folded into the key, so the same member produces unrelated tokens across
// elections and tokens from one election reveal nothing about another.
func VoterToken(secret string, electionID int64, externalID string) string {
	keyMAC := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(keyMAC, "election:%d", electionID)
	key := keyMAC.Sum(nil)

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(externalID))
	return hex.EncodeToString(mac.Sum(nil))
}
