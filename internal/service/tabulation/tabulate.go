package tabulation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openballot/elections-backend/internal/domain"
)

// maxConcurrentPositions bounds the tabulation fan-out.
const maxConcurrentPositions = 8

// Tabulate recomputes the full result for an election and caches it. A
// position whose tabulation fails is reported with a Failed flag; its
// siblings are unaffected.
func (s *Service) Tabulate(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, error) {
	election, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.ListByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}

	// Snapshot the vote count first so a cache freshness check against it is
	// conservative: votes arriving mid-tabulation mark the cache stale.
	voteCount, err := s.votes.CountByElection(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}

	results := make([]domain.PositionResult, len(positions))
	positionViolations := make([][]string, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPositions)
	for i, position := range positions {
		g.Go(func() error {
			pr, foreign, err := s.tabulatePosition(gctx, electionID, position)
			if err != nil {
				// Context errors abort the whole run; anything else is
				// confined to this position.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				s.log.ErrorContext(gctx, "position tabulation failed",
					"election_id", electionID, "position_id", position.ID, "error", err)
				results[i] = domain.PositionResult{
					PositionID:   position.ID,
					Title:        position.Title,
					MaxWinners:   position.MaxWinners,
					Failed:       true,
					FailureCause: err.Error(),
				}
				return nil
			}
			results[i] = *pr
			positionViolations[i] = foreign
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tabulate positions: %w", err)
	}

	countedVoters, err := s.votes.CountDistinctVoters(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("count voters: %w", err)
	}

	violations, err := s.duplicateViolations(ctx, electionID)
	if err != nil {
		return nil, err
	}
	for _, foreign := range positionViolations {
		violations = append(violations, foreign...)
	}

	res := &domain.ElectionResult{
		ElectionID:          electionID,
		Positions:           results,
		EligibleVoters:      election.EligibleVoters,
		CountedVoters:       countedVoters,
		TurnoutPercentage:   percentage(countedVoters, election.EligibleVoters),
		IntegrityViolations: violations,
		ComputedAt:          s.now().UTC(),
	}

	if err := s.results.Upsert(ctx, res, voteCount); err != nil {
		return nil, fmt.Errorf("cache result: %w", err)
	}

	s.log.InfoContext(ctx, "tabulation complete",
		"election_id", electionID,
		"positions", len(positions),
		"counted_voters", countedVoters,
		"violations", len(violations),
	)

	return res, nil
}

// GetResults serves the cached result when no vote has arrived since it was
// computed, recomputing otherwise.
func (s *Service) GetResults(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, error) {
	cached, cachedCount, err := s.results.Get(ctx, electionID)
	if err == nil {
		current, countErr := s.votes.CountByElection(ctx, electionID)
		if countErr != nil {
			return nil, fmt.Errorf("count votes: %w", countErr)
		}
		if current == cachedCount {
			return cached, nil
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return s.Tabulate(ctx, electionID)
}

// Recompute always recomputes, overwriting the cache.
func (s *Service) Recompute(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, error) {
	return s.Tabulate(ctx, electionID)
}

// tabulatePosition counts one position's ballots and derives rankings and
// winners. Votes referencing candidates outside the position are returned as
// integrity violations, never counted.
func (s *Service) tabulatePosition(ctx context.Context, electionID uuid.UUID, position *domain.Position) (*domain.PositionResult, []string, error) {
	candidates, err := s.candidates.ListApprovedByPosition(ctx, position.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list candidates: %w", err)
	}

	votes, err := s.votes.CountedByPosition(ctx, electionID, position.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load votes: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(candidates))
	for _, c := range candidates {
		counts[c.ID] = 0
	}

	var violations []string
	abstentions := 0
	for _, v := range votes {
		if v.IsAbstention() {
			abstentions++
			continue
		}
		if _, ok := counts[*v.CandidateID]; !ok {
			violations = append(violations, fmt.Sprintf(
				"vote %s references candidate %s outside position %s", v.ID, *v.CandidateID, position.ID))
			continue
		}
		counts[*v.CandidateID]++
	}
	totalVotes := 0
	for _, n := range counts {
		totalVotes += n
	}

	ranked := rankCandidates(candidates, counts, totalVotes)
	winners, isTie := selectWinners(ranked, position.MaxWinners)
	for i := range ranked {
		for _, w := range winners {
			if ranked[i].CandidateID == w {
				ranked[i].IsWinner = true
			}
		}
	}

	return &domain.PositionResult{
		PositionID:  position.ID,
		Title:       position.Title,
		MaxWinners:  position.MaxWinners,
		Candidates:  ranked,
		Winners:     winners,
		IsTie:       isTie,
		TotalVotes:  totalVotes,
		Abstentions: abstentions,
	}, violations, nil
}

// rankCandidates orders candidates by (votes desc, ID asc) and assigns shared
// ranks to ties. The ID tiebreak exists only for deterministic output order;
// it never decides a winner.
func rankCandidates(candidates []*domain.Candidate, counts map[uuid.UUID]int, totalVotes int) []domain.CandidateResult {
	ranked := make([]domain.CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, domain.CandidateResult{
			CandidateID: c.ID,
			FullName:    c.FullName,
			Votes:       counts[c.ID],
			Percentage:  percentage(counts[c.ID], totalVotes),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Votes != ranked[j].Votes {
			return ranked[i].Votes > ranked[j].Votes
		}
		return strings.Compare(ranked[i].CandidateID.String(), ranked[j].CandidateID.String()) < 0
	})

	for i := range ranked {
		if i > 0 && ranked[i].Votes == ranked[i-1].Votes {
			ranked[i].Rank = ranked[i-1].Rank
			continue
		}
		ranked[i].Rank = i + 1
	}

	return ranked
}

// selectWinners takes the top maxWinners candidates. A boundary tie includes
// every candidate at the cutoff vote count and sets isTie; the ambiguity is
// surfaced, never broken by ordering. Zero-vote candidates never win.
func selectWinners(ranked []domain.CandidateResult, maxWinners int) ([]uuid.UUID, bool) {
	winners := make([]uuid.UUID, 0, maxWinners)
	isTie := false

	for i, c := range ranked {
		if c.Votes == 0 {
			break
		}
		if i < maxWinners {
			winners = append(winners, c.CandidateID)
			continue
		}
		// Past the cutoff: only a tie with the last winner extends the set.
		if c.Votes == ranked[maxWinners-1].Votes {
			winners = append(winners, c.CandidateID)
			isTie = true
			continue
		}
		break
	}

	return winners, isTie
}

// duplicateViolations reports duplicate (voter, position) vote rows that
// slipped past the unique constraint.
func (s *Service) duplicateViolations(ctx context.Context, electionID uuid.UUID) ([]string, error) {
	dups, err := s.votes.FindDuplicateTriples(ctx, electionID)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	var violations []string
	for _, d := range dups {
		violations = append(violations, fmt.Sprintf(
			"duplicate votes: voter %s cast %d ballots for position %s", d.VoterID, d.Count, d.PositionID))
	}
	return violations, nil
}

// percentage is part/whole as a percent rounded half-up to two decimals.
// A zero denominator yields zero.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
