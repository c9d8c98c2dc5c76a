package domain

import (
	"time"

	"github.com/google/uuid"
)

// CandidateResult is one candidate's standing within a position result.
// Percentage is computed against non-abstention votes, rounded to two
// decimals. Candidates tied on votes share the same rank.
type CandidateResult struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	FullName    string    `json:"full_name"`
	Votes       int       `json:"votes"`
	Percentage  float64   `json:"percentage"`
	Rank        int       `json:"rank"`
	IsWinner    bool      `json:"is_winner"`
}

// PositionResult aggregates the counted votes of one position.
// Winners may exceed MaxWinners when a boundary tie occurs; the ambiguity is
// surfaced via IsTie rather than broken by arbitrary ordering.
type PositionResult struct {
	PositionID   uuid.UUID         `json:"position_id"`
	Title        string            `json:"title"`
	MaxWinners   int               `json:"max_winners"`
	Candidates   []CandidateResult `json:"candidates"`
	Winners      []uuid.UUID       `json:"winners"`
	IsTie        bool              `json:"is_tie"`
	TotalVotes   int               `json:"total_votes"` // non-abstention ballots
	Abstentions  int               `json:"abstentions"`
	Failed       bool              `json:"failed,omitempty"`
	FailureCause string            `json:"failure_cause,omitempty"`
}

// ElectionResult is the derived, recomputable aggregate for an election.
// It is a cache, never a source of truth: always reproducible from the Vote
// records alone. ComputedAt is excluded from the JSON payload so that two
// runs over the same votes marshal byte-identically; storage keeps the
// timestamp in its own column.
type ElectionResult struct {
	ElectionID          uuid.UUID        `json:"election_id"`
	Positions           []PositionResult `json:"positions"`
	EligibleVoters      int              `json:"eligible_voters"`
	CountedVoters       int              `json:"counted_voters"`
	TurnoutPercentage   float64          `json:"turnout_percentage"`
	IntegrityViolations []string         `json:"integrity_violations,omitempty"`
	ComputedAt          time.Time        `json:"-"`
}

// HasIntegrityViolations reports whether tabulation found duplicate vote rows
// or votes referencing foreign candidates.
func (r *ElectionResult) HasIntegrityViolations() bool {
	return len(r.IntegrityViolations) > 0
}
