package domain

import (
	"time"

	"github.com/google/uuid"
)

// SecretCode is the stored form of a voter's one-time code for an election.
// Only the bcrypt hash is ever persisted; the plaintext is shown once at
// issuance and then discarded. One code covers every position the voter is
// eligible for — uses are counted per position, not per code.
type SecretCode struct {
	ID            uuid.UUID
	VoterID       uuid.UUID
	ElectionID    uuid.UUID
	CodeHash      string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	UseCount      int
	FailedCount   int
	WindowStartAt *time.Time // start of the current rate-limit window, nil when clean
}

// IsExpired reports whether the code has expired relative to now.
func (c *SecretCode) IsExpired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// VoterAccess is the per-(voter, election) ledger of eligible and
// already-voted positions. Mutated exclusively by successful ballot
// submissions and access grants/revocations.
type VoterAccess struct {
	VoterID           uuid.UUID
	ElectionID        uuid.UUID
	Status            AccessStatus
	EligiblePositions []uuid.UUID
	VotedPositions    []uuid.UUID
	GrantedAt         time.Time
	UpdatedAt         time.Time
}

// IsEligibleFor reports whether the position is in the eligible set.
func (a *VoterAccess) IsEligibleFor(positionID uuid.UUID) bool {
	for _, id := range a.EligiblePositions {
		if id == positionID {
			return true
		}
	}
	return false
}

// HasVotedFor reports whether the position is already in the voted set.
func (a *VoterAccess) HasVotedFor(positionID uuid.UUID) bool {
	for _, id := range a.VotedPositions {
		if id == positionID {
			return true
		}
	}
	return false
}

// CanVoteForPosition reports whether the voter may still cast a ballot for
// the position: access ACTIVE, position eligible, and not yet voted.
func (a *VoterAccess) CanVoteForPosition(positionID uuid.UUID) bool {
	return a.Status == AccessStatusActive &&
		a.IsEligibleFor(positionID) &&
		!a.HasVotedFor(positionID)
}

// VotingSession authorizes one voting interaction for a (voter, election,
// position) triple. The raw token is a signed JWT handed to the client; only
// its SHA-256 hash is stored. Expiry is checked at use.
type VotingSession struct {
	ID          uuid.UUID
	VoterID     uuid.UUID
	ElectionID  uuid.UUID
	PositionID  uuid.UUID
	TokenHash   string
	Fingerprint string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	UsedAt      *time.Time
}

// IsExpired reports whether the session has expired relative to now.
func (s *VotingSession) IsExpired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}

// IsUsed reports whether the session has already authorized a ballot.
func (s *VotingSession) IsUsed() bool {
	return s.UsedAt != nil
}

// Vote is one immutable ballot record. CandidateID is nil iff the voter
// abstained. The (election, voter, position) triple is unique at the storage
// layer; that constraint, not the application checks, is the final arbiter
// of the at-most-one-vote guarantee.
type Vote struct {
	ID            uuid.UUID
	ElectionID    uuid.UUID
	PositionID    uuid.UUID
	VoterID       uuid.UUID
	CandidateID   *uuid.UUID
	SecretCodeID  uuid.UUID
	SessionID     uuid.UUID
	Status        VoteStatus
	ReceiptHash   string
	ReceiptNumber string
	Fingerprint   string
	CastAt        time.Time
}

// IsAbstention reports whether the ballot records an abstention.
func (v *Vote) IsAbstention() bool {
	return v.CandidateID == nil
}

// VoteEvent is one entry in a vote's append-only audit trail.
type VoteEvent struct {
	ID         uuid.UUID
	VoteID     uuid.UUID
	Type       VoteEventType
	ActorID    *uuid.UUID // nil for system events
	Method     *VerificationMethod
	Note       string
	OccurredAt time.Time
}
