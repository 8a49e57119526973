package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/app/models/dto"
	"github.com/ashetian/sdc-web-sub003/internal/app/tally"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// ElectionService handles election administration: lifecycle, candidates,
// roster import and results.
type ElectionService struct {
	elections  ElectionStore
	candidates CandidateStore
	roster     RosterStore
	ballots    BallotStore
	logger     zerolog.Logger
}

// NewElectionService creates a new election service instance
func NewElectionService(
	elections ElectionStore,
	candidates CandidateStore,
	roster RosterStore,
	ballots BallotStore,
	logger zerolog.Logger,
) *ElectionService {
	return &ElectionService{
		elections:  elections,
		candidates: candidates,
		roster:     roster,
		ballots:    ballots,
		logger:     logger,
	}
}

// CreateElection creates a new election in draft status
func (s *ElectionService) CreateElection(ctx context.Context, title string, mode models.TallyMode) (*models.Election, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}
	if mode != models.ModePlurality && mode != models.ModeRankedChoice {
		return nil, apperrors.NewValidationError("unknown tally mode")
	}

	election := &models.Election{
		Title:  title,
		Status: models.ElectionDraft,
		Mode:   mode,
	}
	if err := s.elections.Create(ctx, election); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("electionId", election.ID).Str("mode", string(mode)).Msg("Election created")
	return election, nil
}

// GetElection retrieves an election with its candidates attached
func (s *ElectionService) GetElection(ctx context.Context, id int64) (*models.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidates.GetByElection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading candidates: %w", err)
	}
	election.Candidates = candidates

	return election, nil
}

// ListElections retrieves all elections, newest first
func (s *ElectionService) ListElections(ctx context.Context) ([]*models.Election, error) {
	return s.elections.GetAll(ctx)
}

// UpdateElection changes title and mode of a draft election
func (s *ElectionService) UpdateElection(ctx context.Context, id int64, title string, mode models.TallyMode) (*models.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionDraft {
		return nil, apperrors.ErrElectionNotEditable
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("title cannot be empty")
	}
	if mode != models.ModePlurality && mode != models.ModeRankedChoice {
		return nil, apperrors.NewValidationError("unknown tally mode")
	}

	election.Title = title
	election.Mode = mode
	if err := s.elections.Update(ctx, election); err != nil {
		return nil, err
	}

	return election, nil
}

// validTransitions lists the allowed status changes. Suspension is absent on
// purpose: it goes through Suspend, which also records the reason.
var validTransitions = map[models.ElectionStatus][]models.ElectionStatus{
	models.ElectionDraft:     {models.ElectionActive},
	models.ElectionActive:    {models.ElectionClosed},
	models.ElectionSuspended: {models.ElectionActive, models.ElectionClosed},
}

// SetStatus moves an election through its lifecycle. Closing is terminal;
// a closed election accepts no further transitions.
func (s *ElectionService) SetStatus(ctx context.Context, id int64, target models.ElectionStatus) (*models.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[election.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.elections.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("electionId", id).
		Str("from", string(election.Status)).
		Str("to", string(target)).
		Msg("Election status changed")

	return s.elections.GetByID(ctx, id)
}

// SuspendElection pauses an active election, recording why. Pending
// verification codes stay valid; they simply cannot be used until the
// election is resumed or they expire.
func (s *ElectionService) SuspendElection(ctx context.Context, id int64, reason string) (*models.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if election.Status != models.ElectionActive {
		return nil, apperrors.ErrInvalidTransition
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("suspension reason cannot be empty")
	}

	if err := s.elections.Suspend(ctx, id, reason); err != nil {
		return nil, err
	}

	s.logger.Warn().Int64("electionId", id).Str("reason", reason).Msg("Election suspended")

	return s.elections.GetByID(ctx, id)
}

// AddCandidate adds a candidate to a draft election
func (s *ElectionService) AddCandidate(ctx context.Context, electionID int64, candidate *models.Candidate) error {
	if err := s.requireDraft(ctx, electionID); err != nil {
		return err
	}

	if strings.TrimSpace(candidate.Name) == "" {
		return apperrors.NewValidationError("candidate name cannot be empty")
	}

	candidate.ElectionID = electionID
	return s.candidates.Create(ctx, candidate)
}

// UpdateCandidate updates a candidate of a draft election
func (s *ElectionService) UpdateCandidate(ctx context.Context, electionID int64, candidate *models.Candidate) error {
	if err := s.requireDraft(ctx, electionID); err != nil {
		return err
	}

	if strings.TrimSpace(candidate.Name) == "" {
		return apperrors.NewValidationError("candidate name cannot be empty")
	}

	candidate.ElectionID = electionID
	return s.candidates.Update(ctx, candidate)
}

// RemoveCandidate removes a candidate from a draft election
func (s *ElectionService) RemoveCandidate(ctx context.Context, electionID, candidateID int64) error {
	if err := s.requireDraft(ctx, electionID); err != nil {
		return err
	}
	return s.candidates.Delete(ctx, electionID, candidateID)
}

// requireDraft rejects roster and candidate mutations once voting could have
// started: the candidate list and electorate are frozen from activation on.
func (s *ElectionService) requireDraft(ctx context.Context, electionID int64) error {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return err
	}
	if election.Status != models.ElectionDraft {
		return apperrors.ErrElectionNotEditable
	}
	return nil
}

// ImportRoster replaces the electorate of a draft election. Rows with an
// empty external ID are dropped; duplicate external IDs collapse to the last
// occurrence in the input. The summary reports both so a bad export is
// visible to the importer instead of silently shrinking the roster.
func (s *ElectionService) ImportRoster(ctx context.Context, electionID int64, rows []dto.RosterRow) (*dto.RosterImportSummary, error) {
	if err := s.requireDraft(ctx, electionID); err != nil {
		return nil, err
	}

	summary := &dto.RosterImportSummary{}
	position := make(map[string]int)
	var entries []*models.RosterEntry

	for _, row := range rows {
		externalID := strings.TrimSpace(row.ExternalID)
		if externalID == "" {
			summary.Dropped++
			continue
		}

		entry := &models.RosterEntry{
			ElectionID: electionID,
			ExternalID: externalID,
			Email:      strings.TrimSpace(row.Email),
			FullName:   strings.TrimSpace(row.FullName),
			Department: row.Department,
			Phone:      row.Phone,
		}

		if at, dup := position[externalID]; dup {
			entries[at] = entry
			summary.Collapsed++
			continue
		}

		position[externalID] = len(entries)
		entries = append(entries, entry)
	}

	if err := s.roster.ReplaceAll(ctx, electionID, entries); err != nil {
		return nil, err
	}
	summary.Imported = len(entries)

	s.logger.Info().
		Int64("electionId", electionID).
		Int("imported", summary.Imported).
		Int("dropped", summary.Dropped).
		Int("collapsed", summary.Collapsed).
		Msg("Roster imported")

	return summary, nil
}

// Results computes turnout statistics and the tally for an election. Results
// can be read at any point in the lifecycle; before the first ballot they are
// simply empty.
func (s *ElectionService) Results(ctx context.Context, electionID int64) (*dto.ElectionResultsResponse, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidates.GetByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error loading candidates: %w", err)
	}

	ballots, err := s.ballots.ListRankings(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("error loading ballots: %w", err)
	}

	var result *tally.Result
	switch election.Mode {
	case models.ModeRankedChoice:
		result, err = tally.InstantRunoff(candidates, ballots)
	default:
		result, err = tally.Plurality(candidates, ballots)
	}
	if err != nil {
		return nil, err
	}

	eligible, err := s.roster.CountEligible(ctx, electionID)
	if err != nil {
		return nil, err
	}
	voted, err := s.roster.CountVoted(ctx, electionID)
	if err != nil {
		return nil, err
	}

	stats := dto.ElectionStats{Eligible: eligible, Voted: voted}
	if eligible > 0 {
		stats.TurnoutPercent = float64(voted) / float64(eligible) * 100
	}

	response := &dto.ElectionResultsResponse{
		Stats:        stats,
		TotalBallots: result.TotalBallots,
		Winner:       result.WinnerID,
		Rounds:       make([]dto.TallyRound, 0, len(result.Rounds)),
	}
	for _, round := range result.Rounds {
		counts := make([]dto.CandidateCount, 0, len(round.Counts))
		for _, count := range round.Counts {
			counts = append(counts, dto.CandidateCount{
				CandidateID: count.CandidateID,
				Name:        count.Name,
				Votes:       count.Votes,
				Percent:     count.Percent,
			})
		}
		response.Rounds = append(response.Rounds, dto.TallyRound{
			Number:       round.Number,
			Counts:       counts,
			EliminatedID: round.EliminatedID,
			WinnerID:     round.WinnerID,
		})
	}

	return response, nil
}
