package tally

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

func makeCandidates(names ...string) []*models.Candidate {
	candidates := make([]*models.Candidate, 0, len(names))
	for i, name := range names {
		candidates = append(candidates, &models.Candidate{
			ID:         int64(i + 1),
			ElectionID: 1,
			Name:       name,
		})
	}
	return candidates
}

func TestPlurality(t *testing.T) {
	candidates := makeCandidates("Alice", "Bob", "Carol")

	tests := []struct {
		name          string
		ballots       [][]int64
		expectedTotal int
		expectedOrder []int64
		expectedVotes []int
		winnerID      int64
	}{
		{
			name: "clear winner",
			ballots: [][]int64{
				{1}, {1}, {1}, {2}, {3},
			},
			expectedTotal: 5,
			expectedOrder: []int64{1, 2, 3},
			expectedVotes: []int{3, 1, 1},
			winnerID:      1,
		},
		{
			name: "only first rank counts",
			ballots: [][]int64{
				{2, 1}, {2, 1}, {1, 2}, {3, 1},
			},
			expectedTotal: 4,
			expectedOrder: []int64{2, 1, 3},
			expectedVotes: []int{2, 1, 1},
			winnerID:      2,
		},
		{
			name: "empty rankings count toward total only",
			ballots: [][]int64{
				{1}, {}, {},
			},
			expectedTotal: 3,
			expectedOrder: []int64{1, 2, 3},
			expectedVotes: []int{1, 0, 0},
			winnerID:      1,
		},
		{
			name: "unknown candidate IDs are skipped",
			ballots: [][]int64{
				{99, 2}, {2},
			},
			expectedTotal: 2,
			expectedOrder: []int64{2, 1, 3},
			expectedVotes: []int{2, 0, 0},
			winnerID:      2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Plurality(candidates, tt.ballots)
			if err != nil {
				t.Fatalf("Plurality returned error: %v", err)
			}

			if result.TotalBallots != tt.expectedTotal {
				t.Errorf("Expected %d total ballots, got %d", tt.expectedTotal, result.TotalBallots)
			}
			if len(result.Rounds) != 1 {
				t.Fatalf("Expected 1 round, got %d", len(result.Rounds))
			}
			if result.WinnerID == nil || *result.WinnerID != tt.winnerID {
				t.Fatalf("Expected winner %d, got %v", tt.winnerID, result.WinnerID)
			}

			counts := result.Rounds[0].Counts
			if len(counts) != len(tt.expectedOrder) {
				t.Fatalf("Expected %d counts, got %d", len(tt.expectedOrder), len(counts))
			}
			for i, count := range counts {
				if count.CandidateID != tt.expectedOrder[i] {
					t.Errorf("Position %d: expected candidate %d, got %d", i, tt.expectedOrder[i], count.CandidateID)
				}
				if count.Votes != tt.expectedVotes[i] {
					t.Errorf("Candidate %d: expected %d votes, got %d", count.CandidateID, tt.expectedVotes[i], count.Votes)
				}
			}
		})
	}
}

func TestPluralityNoCandidates(t *testing.T) {
	_, err := Plurality(nil, [][]int64{{1}})
	if !errors.Is(err, apperrors.ErrNoCandidates) {
		t.Errorf("Expected ErrNoCandidates, got %v", err)
	}
}

func TestPluralityNoBallots(t *testing.T) {
	result, err := Plurality(makeCandidates("Alice", "Bob"), nil)
	if err != nil {
		t.Fatalf("Plurality returned error: %v", err)
	}
	if result.TotalBallots != 0 {
		t.Errorf("Expected 0 total ballots, got %d", result.TotalBallots)
	}
	if result.WinnerID != nil {
		t.Errorf("Expected no winner, got %d", *result.WinnerID)
	}
	if len(result.Rounds) != 0 {
		t.Errorf("Expected no rounds, got %d", len(result.Rounds))
	}
}

func TestInstantRunoffTransfersVotes(t *testing.T) {
	// Three candidates, seven ballots. Nobody holds a majority in round 1
	// (Alice 3, Bob 2, Carol 2), Carol is eliminated, her ballots transfer to
	// Alice, and Alice wins round 2 with 5 of 7.
	candidates := makeCandidates("Alice", "Bob", "Carol")
	ballots := [][]int64{
		{1, 2, 3},
		{1, 3, 2},
		{1},
		{2, 1},
		{2, 3, 1},
		{3, 1, 2},
		{3, 1},
	}

	result, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}

	if result.TotalBallots != 7 {
		t.Errorf("Expected 7 total ballots, got %d", result.TotalBallots)
	}
	if len(result.Rounds) != 2 {
		t.Fatalf("Expected 2 rounds, got %d", len(result.Rounds))
	}

	round1 := result.Rounds[0]
	if round1.EliminatedID == nil || *round1.EliminatedID != 3 {
		t.Fatalf("Expected Carol (3) eliminated in round 1, got %v", round1.EliminatedID)
	}
	if round1.WinnerID != nil {
		t.Errorf("Round 1 should have no winner, got %d", *round1.WinnerID)
	}
	wantRound1 := map[int64]int{1: 3, 2: 2, 3: 2}
	for _, count := range round1.Counts {
		if count.Votes != wantRound1[count.CandidateID] {
			t.Errorf("Round 1 candidate %d: expected %d votes, got %d", count.CandidateID, wantRound1[count.CandidateID], count.Votes)
		}
	}

	round2 := result.Rounds[1]
	if len(round2.Counts) != 2 {
		t.Fatalf("Expected 2 surviving candidates in round 2, got %d", len(round2.Counts))
	}
	wantRound2 := map[int64]int{1: 5, 2: 2}
	for _, count := range round2.Counts {
		if count.Votes != wantRound2[count.CandidateID] {
			t.Errorf("Round 2 candidate %d: expected %d votes, got %d", count.CandidateID, wantRound2[count.CandidateID], count.Votes)
		}
	}
	if round2.WinnerID == nil || *round2.WinnerID != 1 {
		t.Fatalf("Expected Alice (1) to win round 2, got %v", round2.WinnerID)
	}
	if result.WinnerID == nil || *result.WinnerID != 1 {
		t.Fatalf("Expected Alice (1) as overall winner, got %v", result.WinnerID)
	}
}

func TestInstantRunoffImmediateMajority(t *testing.T) {
	candidates := makeCandidates("Alice", "Bob", "Carol")
	ballots := [][]int64{
		{1, 2}, {1, 3}, {1}, {2}, {3},
	}

	result, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}

	if len(result.Rounds) != 1 {
		t.Fatalf("Expected a single round on immediate majority, got %d", len(result.Rounds))
	}
	if result.WinnerID == nil || *result.WinnerID != 1 {
		t.Fatalf("Expected Alice (1) as winner, got %v", result.WinnerID)
	}
	if result.Rounds[0].Counts[0].Percent <= 50 {
		t.Errorf("Winner should hold a strict majority, got %.2f%%", result.Rounds[0].Counts[0].Percent)
	}
}

func TestInstantRunoffExhaustedBallots(t *testing.T) {
	// Ballots ranking only eliminated candidates stop counting, which can
	// leave the winner below a strict majority of all cast ballots. The last
	// candidate standing still wins.
	candidates := makeCandidates("Alice", "Bob", "Carol", "Dave")
	ballots := [][]int64{
		{1}, {1},
		{2}, {2},
		{3},
		{4},
	}

	result, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}

	if result.WinnerID == nil || *result.WinnerID != 1 {
		t.Fatalf("Expected Alice (1) as winner, got %v", result.WinnerID)
	}
	if result.TotalBallots != 6 {
		t.Errorf("Expected 6 total ballots, got %d", result.TotalBallots)
	}

	last := result.Rounds[len(result.Rounds)-1]
	for _, count := range last.Counts {
		if count.Percent > 50 {
			return
		}
	}
	// No strict majority: the run must have ended with a lone survivor
	if len(last.Counts) != 1 {
		t.Errorf("Expected a lone survivor in the final round, got %d candidates", len(last.Counts))
	}
}

func TestInstantRunoffEliminationTieBreak(t *testing.T) {
	// Bob and Carol tie at the bottom of round 1 with equal first-choice
	// support, so the higher candidate ID (Carol, 3) is eliminated.
	candidates := makeCandidates("Alice", "Bob", "Carol")
	ballots := [][]int64{
		{1}, {1}, {1},
		{2, 1},
		{3, 1},
	}

	result, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}

	// Alice already holds 3 of 5 in round 1 (60%), so this ends immediately;
	// rebuild without her majority to force the tie-break.
	if len(result.Rounds) != 1 || result.WinnerID == nil || *result.WinnerID != 1 {
		t.Fatalf("Sanity check failed: expected immediate Alice win, got %+v", result)
	}

	ballots = [][]int64{
		{1}, {1}, {1},
		{2, 1}, {2},
		{3, 1}, {3},
	}
	result, err = InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}

	round1 := result.Rounds[0]
	if round1.EliminatedID == nil || *round1.EliminatedID != 3 {
		t.Fatalf("Expected Carol (3) eliminated by ID tie-break, got %v", round1.EliminatedID)
	}
	if result.WinnerID == nil || *result.WinnerID != 1 {
		t.Fatalf("Expected Alice (1) as winner, got %v", result.WinnerID)
	}
}

func TestInstantRunoffFirstChoiceTieBreak(t *testing.T) {
	// Round 1: Alice 4, Bob 3, Carol 2, Dave 1. Dave is eliminated and his
	// ballot transfers to Carol, leaving Bob and Carol tied at 3 in round 2.
	// Carol had fewer round-1 first choices (2 vs 3), so Carol goes — even
	// though the ID rule alone would have eliminated her anyway, the
	// first-choice comparison is what decides here.
	candidates := makeCandidates("Alice", "Bob", "Carol", "Dave")
	ballots := [][]int64{
		{1}, {1}, {1}, {1},
		{2}, {2}, {2},
		{3}, {3},
		{4, 3},
	}

	result, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}

	round1 := result.Rounds[0]
	if round1.EliminatedID == nil || *round1.EliminatedID != 4 {
		t.Fatalf("Expected Dave (4) eliminated in round 1, got %v", round1.EliminatedID)
	}

	round2 := result.Rounds[1]
	wantRound2 := map[int64]int{1: 4, 2: 3, 3: 3}
	for _, count := range round2.Counts {
		if count.Votes != wantRound2[count.CandidateID] {
			t.Errorf("Round 2 candidate %d: expected %d votes, got %d", count.CandidateID, wantRound2[count.CandidateID], count.Votes)
		}
	}
	if round2.EliminatedID == nil || *round2.EliminatedID != 3 {
		t.Fatalf("Expected Carol (3) eliminated in round 2, got %v", round2.EliminatedID)
	}
	if result.WinnerID == nil || *result.WinnerID != 1 {
		t.Fatalf("Expected Alice (1) as overall winner, got %v", result.WinnerID)
	}
}

func TestInstantRunoffTwoCandidatesDegeneratesToPlurality(t *testing.T) {
	candidates := makeCandidates("Alice", "Bob")
	ballots := [][]int64{
		{1, 2}, {2, 1}, {1},
	}

	irv, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}
	plain, err := Plurality(candidates, ballots)
	if err != nil {
		t.Fatalf("Plurality returned error: %v", err)
	}

	if !reflect.DeepEqual(irv, plain) {
		t.Errorf("Two-candidate runoff should match plurality:\nirv:   %+v\nplain: %+v", irv, plain)
	}
}

func TestInstantRunoffNoBallots(t *testing.T) {
	result, err := InstantRunoff(makeCandidates("Alice", "Bob", "Carol"), nil)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}
	if result.TotalBallots != 0 || result.WinnerID != nil || len(result.Rounds) != 0 {
		t.Errorf("Expected empty result for zero ballots, got %+v", result)
	}
}

func TestInstantRunoffNoCandidates(t *testing.T) {
	_, err := InstantRunoff(nil, [][]int64{{1}})
	if !errors.Is(err, apperrors.ErrNoCandidates) {
		t.Errorf("Expected ErrNoCandidates, got %v", err)
	}
}

func TestInstantRunoffDeterministic(t *testing.T) {
	candidates := makeCandidates("Alice", "Bob", "Carol", "Dave")
	ballots := [][]int64{
		{1, 2, 3, 4}, {2, 3, 4, 1}, {3, 4, 1, 2}, {4, 1, 2, 3},
		{1, 3}, {2, 4}, {3, 1}, {4, 2},
		{1}, {2},
	}

	first, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}

	for i := 0; i < 10; i++ {
		again, err := InstantRunoff(candidates, ballots)
		if err != nil {
			t.Fatalf("InstantRunoff returned error on run %d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d differs from first run:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

func TestInstantRunoffTerminates(t *testing.T) {
	candidates := makeCandidates("A", "B", "C", "D", "E")
	ballots := [][]int64{
		{1}, {2}, {3}, {4}, {5},
	}

	result, err := InstantRunoff(candidates, ballots)
	if err != nil {
		t.Fatalf("InstantRunoff returned error: %v", err)
	}
	if len(result.Rounds) > len(candidates) {
		t.Errorf("Expected at most %d rounds, got %d", len(candidates), len(result.Rounds))
	}
	if result.WinnerID == nil {
		t.Error("Expected a winner after full elimination")
	}
}
