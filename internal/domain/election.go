package domain

import (
	"time"

	"github.com/google/uuid"
)

// Election represents a single contest with its lifecycle state.
// Status and phase move only through state-machine transitions; an election
// is never deleted once any ballot exists.
type Election struct {
	ID             uuid.UUID
	Title          string
	Scope          ElectionScope
	GroupID        *uuid.UUID // set iff Scope == ScopeSubGroup
	Status         ElectionStatus
	Phase          ElectionPhase
	StartsAt       time.Time
	EndsAt         time.Time
	EligibleVoters int
	OwnerID        uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// statusTransitions lists the allowed status moves. CANCELLED is reachable
// from every non-terminal status and is handled separately.
var statusTransitions = map[ElectionStatus][]ElectionStatus{
	ElectionStatusDraft:     {ElectionStatusScheduled},
	ElectionStatusScheduled: {ElectionStatusActive},
	ElectionStatusActive:    {ElectionStatusPaused, ElectionStatusCompleted},
	ElectionStatusPaused:    {ElectionStatusActive, ElectionStatusCompleted},
}

// CanTransitionTo reports whether the status state machine allows moving
// from the election's current status to target.
func (e *Election) CanTransitionTo(target ElectionStatus) bool {
	if e.Status.IsTerminal() {
		return false
	}
	if target == ElectionStatusCancelled {
		return true
	}
	for _, s := range statusTransitions[e.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// CanAdvancePhaseTo reports whether the phase may move forward from the
// current phase to target. Backward moves are rejected here; they are only
// possible through an explicit administrative override.
func (e *Election) CanAdvancePhaseTo(target ElectionPhase) bool {
	if !target.IsValid() {
		return false
	}
	if e.Status.IsTerminal() {
		return false
	}
	return target.Order() > e.Phase.Order()
}

// CanAcceptVotes reports whether a ballot may be accepted right now:
// status ACTIVE, phase VOTING, and now within [StartsAt, EndsAt].
// A paused election has status PAUSED and therefore fails this check.
func (e *Election) CanAcceptVotes(now time.Time) bool {
	if e.Status != ElectionStatusActive || e.Phase != PhaseVoting {
		return false
	}
	if now.Before(e.StartsAt) || now.After(e.EndsAt) {
		return false
	}
	return true
}

// IsMutable reports whether positions and candidates may still be edited.
// Once the election leaves DRAFT/SCHEDULED its ballot structure is frozen.
func (e *Election) IsMutable() bool {
	return e.Status == ElectionStatusDraft || e.Status == ElectionStatusScheduled
}

// Validate checks structural invariants of the election record.
func (e *Election) Validate() error {
	var errs []FieldError
	if e.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if !e.Scope.IsValid() {
		errs = append(errs, FieldError{Field: "scope", Message: "unknown scope"})
	}
	if e.Scope == ScopeSubGroup && e.GroupID == nil {
		errs = append(errs, FieldError{Field: "group_id", Message: "required for sub-group scope"})
	}
	if !e.Status.IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown status"})
	}
	if !e.Phase.IsValid() {
		errs = append(errs, FieldError{Field: "phase", Message: "unknown phase"})
	}
	if !e.EndsAt.After(e.StartsAt) {
		errs = append(errs, FieldError{Field: "ends_at", Message: "must be after starts_at"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Position represents a contested seat within an election. Owned by the
// election; immutable once the election leaves DRAFT/SCHEDULED.
type Position struct {
	ID              uuid.UUID
	ElectionID      uuid.UUID
	Title           string
	OrderIndex      int
	MaxWinners      int
	AllowAbstention bool
	Method          VotingMethod
	CreatedAt       time.Time
}

// Validate checks structural invariants of the position record.
func (p *Position) Validate() error {
	var errs []FieldError
	if p.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "must not be empty"})
	}
	if p.MaxWinners < 1 {
		errs = append(errs, FieldError{Field: "max_winners", Message: "must be at least 1"})
	}
	if !p.Method.IsValid() {
		errs = append(errs, FieldError{Field: "method", Message: "unsupported voting method"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Candidate represents a person standing for a position. Once approved it is
// an immutable reference target for ballots.
type Candidate struct {
	ID         uuid.UUID
	PositionID uuid.UUID
	ElectionID uuid.UUID
	FullName   string
	Status     CandidateStatus
	CreatedAt  time.Time
}

// IsApproved reports whether ballots may reference this candidate.
func (c *Candidate) IsApproved() bool {
	return c.Status == CandidateStatusApproved
}
