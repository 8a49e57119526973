// Package tally implements ballot tabulation. Everything here is pure
// computation over candidate lists and ranked ballots: no I/O, no clock, and
// identical inputs always produce identical output.
package tally

import (
	"sort"

	"github.com/ashetian/sdc-web-sub003/internal/app/models"
	"github.com/ashetian/sdc-web-sub003/internal/pkg/apperrors"
)

// Count is one candidate's standing within a round
type Count struct {
	CandidateID int64
	Name        string
	Votes       int
	Percent     float64
}

// Round is one round of tabulation. At most one of EliminatedID and WinnerID
// is set; a round with neither can only be the last round of a degenerate
// input.
type Round struct {
	Number       int
	Counts       []Count
	EliminatedID *int64
	WinnerID     *int64
}

// Result is the complete outcome of a tabulation
type Result struct {
	TotalBallots int
	Rounds       []Round
	WinnerID     *int64
}

// Plurality credits each ballot's first-ranked candidate and declares the top
// entry the winner. A tie at the top is not broken further: the candidate
// sorting first (fewest ID among the tied) is reported.
func Plurality(candidates []*models.Candidate, ballots [][]int64) (*Result, error) {
	if len(candidates) == 0 {
		return nil, apperrors.ErrNoCandidates
	}

	result := &Result{TotalBallots: len(ballots)}
	if len(ballots) == 0 {
		return result, nil
	}

	votes := make(map[int64]int, len(candidates))
	valid := candidateSet(candidates)
	for _, rankings := range ballots {
		// Ballots with an empty ranking count toward the total but credit
		// nobody
		for _, id := range rankings {
			if valid[id] {
				votes[id]++
				break
			}
		}
	}

	counts := buildCounts(candidates, nil, votes, len(ballots))
	winner := counts[0].CandidateID

	round := Round{Number: 1, Counts: counts, WinnerID: &winner}
	result.Rounds = []Round{round}
	result.WinnerID = &winner
	return result, nil
}

// InstantRunoff runs multi-round IRV tabulation: each round credits every
// ballot's highest-ranked surviving candidate, stops on a strict majority of
// total ballots, and otherwise eliminates the weakest candidate.
//
// Round percentages are computed against the total ballot count, not the
// round's unexhausted ballots, so a candidate must hold more than half of all
// cast ballots to win early.
//
// Elimination tie-break, applied when several candidates share the lowest
// round count: the one with fewer first-choice (round 1) votes is eliminated;
// if that also ties, the highest candidate ID loses.
//
// With two or fewer candidates a runoff is meaningless and the tabulation
// degenerates to a single plurality round.
func InstantRunoff(candidates []*models.Candidate, ballots [][]int64) (*Result, error) {
	if len(candidates) == 0 {
		return nil, apperrors.ErrNoCandidates
	}
	if len(candidates) <= 2 {
		return Plurality(candidates, ballots)
	}

	result := &Result{TotalBallots: len(ballots)}
	if len(ballots) == 0 {
		return result, nil
	}

	total := len(ballots)
	valid := candidateSet(candidates)
	eliminated := make(map[int64]bool)
	firstChoice := make(map[int64]int)

	for number := 1; number <= len(candidates); number++ {
		votes := make(map[int64]int)
		for _, rankings := range ballots {
			for _, id := range rankings {
				if valid[id] && !eliminated[id] {
					votes[id]++
					break
				}
				// Exhausted ballots fall through and credit nobody this round
			}
		}

		if number == 1 {
			for id, n := range votes {
				firstChoice[id] = n
			}
		}

		counts := buildCounts(candidates, eliminated, votes, total)
		round := Round{Number: number, Counts: counts}

		if counts[0].Percent > 50 {
			winner := counts[0].CandidateID
			round.WinnerID = &winner
			result.Rounds = append(result.Rounds, round)
			result.WinnerID = &winner
			return result, nil
		}

		if len(counts) == 1 {
			// Last candidate standing wins by default
			winner := counts[0].CandidateID
			round.WinnerID = &winner
			result.Rounds = append(result.Rounds, round)
			result.WinnerID = &winner
			return result, nil
		}

		loser := pickLoser(counts, firstChoice)
		round.EliminatedID = &loser
		eliminated[loser] = true
		result.Rounds = append(result.Rounds, round)
	}

	// Unreachable for well-formed input: eliminating one candidate per round
	// leaves a single survivor within len(candidates) rounds
	return result, nil
}

// candidateSet indexes candidate IDs for membership checks
func candidateSet(candidates []*models.Candidate) map[int64]bool {
	set := make(map[int64]bool, len(candidates))
	for _, c := range candidates {
		set[c.ID] = true
	}
	return set
}

// buildCounts assembles the per-candidate standings of one round, sorted by
// votes descending then candidate ID ascending. Eliminated candidates are
// excluded; surviving candidates with zero votes are included.
func buildCounts(candidates []*models.Candidate, eliminated map[int64]bool, votes map[int64]int, total int) []Count {
	counts := make([]Count, 0, len(candidates))
	for _, c := range candidates {
		if eliminated[c.ID] {
			continue
		}
		n := votes[c.ID]
		var percent float64
		if total > 0 {
			percent = float64(n) / float64(total) * 100
		}
		counts = append(counts, Count{
			CandidateID: c.ID,
			Name:        c.Name,
			Votes:       n,
			Percent:     percent,
		})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Votes != counts[j].Votes {
			return counts[i].Votes > counts[j].Votes
		}
		return counts[i].CandidateID < counts[j].CandidateID
	})

	return counts
}

// pickLoser selects the candidate to eliminate among those sharing the lowest
// round count
func pickLoser(counts []Count, firstChoice map[int64]int) int64 {
	low := counts[len(counts)-1].Votes

	loser := counts[len(counts)-1].CandidateID
	for i := len(counts) - 1; i >= 0 && counts[i].Votes == low; i-- {
		id := counts[i].CandidateID
		if firstChoice[id] < firstChoice[loser] {
			loser = id
		} else if firstChoice[id] == firstChoice[loser] && id > loser {
			loser = id
		}
	}

	return loser
}
