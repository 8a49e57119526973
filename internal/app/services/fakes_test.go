package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// In-memory store fakes. They mirror the error behavior of the concrete
// repositories, including the atomicity of the cast unit, so the services can
// be exercised without a database.

type fakeElectionStore struct {
	mu        sync.Mutex
	elections map[int64]*models.Election
	nextID    int64
}

func newFakeElectionStore() *fakeElectionStore {
	return &fakeElectionStore{elections: make(map[int64]*models.Election), nextID: 1}
}

func (f *fakeElectionStore) Create(_ context.Context, election *models.Election) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	election.ID = f.nextID
	f.nextID++
	election.CreatedAt = time.Now()
	election.UpdatedAt = election.CreatedAt
	copied := *election
	f.elections[election.ID] = &copied
	return nil
}

func (f *fakeElectionStore) GetByID(_ context.Context, id int64) (*models.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	election, ok := f.elections[id]
	if !ok {
		return nil, apperrors.ErrElectionNotFound
	}
	copied := *election
	return &copied, nil
}

func (f *fakeElectionStore) GetAll(_ context.Context) ([]*models.Election, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*models.Election
	for _, election := range f.elections {
		copied := *election
		all = append(all, &copied)
	}
	return all, nil
}

func (f *fakeElectionStore) Update(_ context.Context, election *models.Election) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.elections[election.ID]
	if !ok {
		return apperrors.ErrElectionNotFound
	}
	stored.Title = election.Title
	stored.Mode = election.Mode
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeElectionStore) UpdateStatus(_ context.Context, id int64, status models.ElectionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.elections[id]
	if !ok {
		return apperrors.ErrElectionNotFound
	}
	stored.Status = status
	if status != models.ElectionSuspended {
		stored.SuspendedReason = nil
		stored.SuspendedAt = nil
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeElectionStore) Suspend(_ context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.elections[id]
	if !ok {
		return apperrors.ErrElectionNotFound
	}
	now := time.Now()
	stored.Status = models.ElectionSuspended
	stored.SuspendedReason = &reason
	stored.SuspendedAt = &now
	stored.UpdatedAt = now
	return nil
}

type fakeCandidateStore struct {
	mu         sync.Mutex
	candidates map[int64]*models.Candidate
	nextID     int64
}

func newFakeCandidateStore() *fakeCandidateStore {
	return &fakeCandidateStore{candidates: make(map[int64]*models.Candidate), nextID: 1}
}

func (f *fakeCandidateStore) Create(_ context.Context, candidate *models.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	candidate.ID = f.nextID
	f.nextID++
	copied := *candidate
	f.candidates[candidate.ID] = &copied
	return nil
}

func (f *fakeCandidateStore) GetByElection(_ context.Context, electionID int64) ([]*models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Candidate
	for id := int64(1); id < f.nextID; id++ {
		candidate, ok := f.candidates[id]
		if ok && candidate.ElectionID == electionID {
			copied := *candidate
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeCandidateStore) ExistsByIDs(_ context.Context, electionID int64, ids []int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		candidate, ok := f.candidates[id]
		if !ok || candidate.ElectionID != electionID {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeCandidateStore) Update(_ context.Context, candidate *models.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.candidates[candidate.ID]
	if !ok || stored.ElectionID != candidate.ElectionID {
		return apperrors.ErrCandidateNotFound
	}
	copied := *candidate
	f.candidates[candidate.ID] = &copied
	return nil
}

func (f *fakeCandidateStore) Delete(_ context.Context, electionID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.candidates[id]
	if !ok || stored.ElectionID != electionID {
		return apperrors.ErrCandidateNotFound
	}
	delete(f.candidates, id)
	return nil
}

type rosterKey struct {
	electionID int64
	externalID string
}

type fakeRosterStore struct {
	mu      sync.Mutex
	entries map[rosterKey]*models.RosterEntry
	nextID  int64
}

func newFakeRosterStore() *fakeRosterStore {
	return &fakeRosterStore{entries: make(map[rosterKey]*models.RosterEntry), nextID: 1}
}

func (f *fakeRosterStore) ReplaceAll(_ context.Context, electionID int64, entries []*models.RosterEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.entries {
		if key.electionID == electionID {
			delete(f.entries, key)
		}
	}
	for _, entry := range entries {
		copied := *entry
		copied.ID = f.nextID
		f.nextID++
		copied.ElectionID = electionID
		f.entries[rosterKey{electionID, copied.ExternalID}] = &copied
	}
	return nil
}

func (f *fakeRosterStore) FindByExternalID(_ context.Context, electionID int64, externalID string) (*models.RosterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[rosterKey{electionID, externalID}]
	if !ok {
		return nil, apperrors.ErrNotOnRoster
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeRosterStore) CountEligible(_ context.Context, electionID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key := range f.entries {
		if key.electionID == electionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRosterStore) CountVoted(_ context.Context, electionID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key, entry := range f.entries {
		if key.electionID == electionID && entry.HasVoted {
			count++
		}
	}
	return count, nil
}

// markVoted mirrors the repository's conditional update: it fails with
// AlreadyVoted when the flag is already set. Callers must hold f.mu.
func (f *fakeRosterStore) markVoted(electionID int64, externalID string) error {
	entry, ok := f.entries[rosterKey{electionID, externalID}]
	if !ok || entry.HasVoted {
		return apperrors.ErrAlreadyVoted
	}
	entry.HasVoted = true
	return nil
}

type fakeCodeStore struct {
	mu     sync.Mutex
	codes  map[rosterKey]*models.VerificationCode
	nextID int64
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: make(map[rosterKey]*models.VerificationCode), nextID: 1}
}

func (f *fakeCodeStore) Issue(_ context.Context, code *models.VerificationCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	code.ID = f.nextID
	f.nextID++
	copied := *code
	f.codes[rosterKey{code.ElectionID, code.ExternalID}] = &copied
	return nil
}

func (f *fakeCodeStore) FindValid(_ context.Context, electionID int64, externalID, code string) (*models.VerificationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.codes[rosterKey{electionID, externalID}]
	if !ok || stored.Code != code || !stored.ExpiresAt.After(time.Now()) {
		return nil, apperrors.ErrInvalidOrExpiredCode
	}
	copied := *stored
	return &copied, nil
}

func (f *fakeCodeStore) DeleteExpired(_ context.Context, electionID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, stored := range f.codes {
		if key.electionID == electionID && !stored.ExpiresAt.After(time.Now()) {
			delete(f.codes, key)
		}
	}
	return nil
}

func (f *fakeCodeStore) get(electionID int64, externalID string) *models.VerificationCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[rosterKey{electionID, externalID}]
}

type fakeBallotStore struct {
	mu      sync.Mutex
	ballots []*models.Ballot
	roster  *fakeRosterStore
	codes   *fakeCodeStore
}

func newFakeBallotStore(roster *fakeRosterStore, codes *fakeCodeStore) *fakeBallotStore {
	return &fakeBallotStore{roster: roster, codes: codes}
}

// CastAtomic mirrors the transactional cast unit: all three effects apply or
// none do, and a token collision wins over the roster check order-wise just
// like the real unique index.
func (f *fakeBallotStore) CastAtomic(_ context.Context, ballot *models.Ballot, externalID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.ballots {
		if existing.ElectionID == ballot.ElectionID && existing.VoterToken == ballot.VoterToken {
			return apperrors.ErrDuplicateBallot
		}
	}

	f.roster.mu.Lock()
	err := f.roster.markVoted(ballot.ElectionID, externalID)
	f.roster.mu.Unlock()
	if err != nil {
		return err
	}

	f.codes.mu.Lock()
	delete(f.codes.codes, rosterKey{ballot.ElectionID, externalID})
	f.codes.mu.Unlock()

	copied := *ballot
	f.ballots = append(f.ballots, &copied)
	return nil
}

func (f *fakeBallotStore) CountByElection(_ context.Context, electionID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, ballot := range f.ballots {
		if ballot.ElectionID == electionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBallotStore) ListRankings(_ context.Context, electionID int64) ([][]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rankings [][]int64
	for _, ballot := range f.ballots {
		if ballot.ElectionID == electionID {
			rankings = append(rankings, ballot.Rankings)
		}
	}
	return rankings, nil
}

type sentMail struct {
	ToEmail       string
	ToName        string
	Code          string
	ElectionTitle string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (f *fakeMailer) SendVotingCode(toEmail, toName, code, electionTitle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{toEmail, toName, code, electionTitle})
	return nil
}

func (f *fakeMailer) last() *sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return &f.sent[len(f.sent)-1]
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
