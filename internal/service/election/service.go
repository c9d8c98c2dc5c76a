// Package election implements the election lifecycle: status transitions and
// phase progression, with the gates that keep an election from opening or
// closing in an inconsistent state.
package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/domain"
)

// electionRepo defines the election repository interface needed by the service.
type electionRepo interface {
	Create(ctx context.Context, e *domain.Election) (*domain.Election, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	Transition(ctx context.Context, id uuid.UUID, fromStatus domain.ElectionStatus, fromPhase domain.ElectionPhase, toStatus domain.ElectionStatus, toPhase domain.ElectionPhase) (*domain.Election, error)
	ListByStatus(ctx context.Context, status domain.ElectionStatus) ([]*domain.Election, error)
}

// positionRepo defines the position repository interface needed by the service.
type positionRepo interface {
	ListUnfillable(ctx context.Context, electionID uuid.UUID) ([]*domain.Position, error)
}

// voteRepo defines the vote repository interface needed by the service.
type voteRepo interface {
	CountByElection(ctx context.Context, electionID uuid.UUID) (int, error)
}

// resultRepo defines the result-cache interface needed by the service.
type resultRepo interface {
	Get(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, int, error)
}

// Service implements election lifecycle operations.
type Service struct {
	log       *slog.Logger
	elections electionRepo
	positions positionRepo
	votes     voteRepo
	results   resultRepo
}

// NewService creates a new election service instance.
func NewService(
	logger *slog.Logger,
	elections electionRepo,
	positions positionRepo,
	votes voteRepo,
	results resultRepo,
) *Service {
	return &Service{
		log:       logger.With("service", "election"),
		elections: elections,
		positions: positions,
		votes:     votes,
		results:   results,
	}
}

// Create registers a new election in DRAFT status, REGISTRATION phase.
func (s *Service) Create(ctx context.Context, e *domain.Election) (*domain.Election, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.Status = domain.ElectionStatusDraft
	e.Phase = domain.PhaseRegistration

	if err := e.Validate(); err != nil {
		return nil, err
	}

	created, err := s.elections.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create election: %w", err)
	}

	s.log.InfoContext(ctx, "election created", "election_id", created.ID, "title", created.Title)
	return created, nil
}

// Schedule moves a DRAFT election to SCHEDULED.
func (s *Service) Schedule(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.transition(ctx, id, domain.ElectionStatusScheduled, nil)
}

// Activate opens a SCHEDULED election.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.transition(ctx, id, domain.ElectionStatusActive, nil)
}

// Pause suspends an ACTIVE election. Ballot intake stops until Resume.
func (s *Service) Pause(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.transition(ctx, id, domain.ElectionStatusPaused, nil)
}

// Resume reopens a PAUSED election.
func (s *Service) Resume(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.transition(ctx, id, domain.ElectionStatusActive, nil)
}

// Cancel terminates the election from any non-terminal status.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.transition(ctx, id, domain.ElectionStatusCancelled, nil)
}

// Complete closes the election. Refused until tabulation has run and produced
// a result free of integrity violations.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	res, _, err := s.results.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("election %s: no tabulated result: %w", id, domain.ErrConflict)
		}
		return nil, fmt.Errorf("load cached result: %w", err)
	}
	if res.HasIntegrityViolations() {
		return nil, fmt.Errorf("election %s: unresolved integrity violations: %w", id, domain.ErrIntegrityViolation)
	}

	phase := domain.PhaseCompleted
	return s.transition(ctx, id, domain.ElectionStatusCompleted, &phase)
}

// AdvancePhase moves the phase forward to target. Entering VOTING is refused
// while any position has neither an approved candidate nor abstention allowed.
func (s *Service) AdvancePhase(ctx context.Context, id uuid.UUID, target domain.ElectionPhase) (*domain.Election, error) {
	e, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !e.CanAdvancePhaseTo(target) {
		return nil, fmt.Errorf("election %s: phase %s -> %s: %w", id, e.Phase, target, domain.ErrConflict)
	}

	if target == domain.PhaseVoting {
		if err := s.checkPositionsFillable(ctx, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.elections.Transition(ctx, id, e.Status, e.Phase, e.Status, target)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "phase advanced", "election_id", id, "from", e.Phase, "to", target)
	return updated, nil
}

// OverridePhase is the administrative escape hatch: it may move the phase
// backwards. Terminal elections are immutable, and VOTING cannot be entered or
// left through an override once ballots exist.
func (s *Service) OverridePhase(ctx context.Context, id uuid.UUID, target domain.ElectionPhase) (*domain.Election, error) {
	e, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.Status.IsTerminal() {
		return nil, fmt.Errorf("election %s is %s: %w", id, e.Status, domain.ErrConflict)
	}
	if !target.IsValid() {
		return nil, fmt.Errorf("phase %q: %w", target, domain.ErrValidation)
	}

	if target == domain.PhaseVoting || e.Phase == domain.PhaseVoting {
		n, err := s.votes.CountByElection(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("count ballots: %w", err)
		}
		if n > 0 {
			return nil, fmt.Errorf("election %s has %d ballots, phase override across VOTING refused: %w", id, n, domain.ErrConflict)
		}
	}
	if target == domain.PhaseVoting {
		if err := s.checkPositionsFillable(ctx, id); err != nil {
			return nil, err
		}
	}

	updated, err := s.elections.Transition(ctx, id, e.Status, e.Phase, e.Status, target)
	if err != nil {
		return nil, err
	}

	s.log.WarnContext(ctx, "phase override", "election_id", id, "from", e.Phase, "to", target)
	return updated, nil
}

// GetByID returns the election.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.elections.GetByID(ctx, id)
}

// ListByStatus returns elections in the given status.
func (s *Service) ListByStatus(ctx context.Context, status domain.ElectionStatus) ([]*domain.Election, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrValidation)
	}
	return s.elections.ListByStatus(ctx, status)
}

// transition performs a compare-and-set status move. newPhase nil keeps the
// current phase.
func (s *Service) transition(ctx context.Context, id uuid.UUID, to domain.ElectionStatus, newPhase *domain.ElectionPhase) (*domain.Election, error) {
	e, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !e.CanTransitionTo(to) {
		return nil, fmt.Errorf("election %s: status %s -> %s: %w", id, e.Status, to, domain.ErrConflict)
	}

	phase := e.Phase
	if newPhase != nil {
		phase = *newPhase
	}

	updated, err := s.elections.Transition(ctx, id, e.Status, e.Phase, to, phase)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "status transition", "election_id", id, "from", e.Status, "to", to)
	return updated, nil
}

// checkPositionsFillable rejects opening the ballot while a position could
// collect no valid votes at all.
func (s *Service) checkPositionsFillable(ctx context.Context, electionID uuid.UUID) error {
	unfillable, err := s.positions.ListUnfillable(ctx, electionID)
	if err != nil {
		return fmt.Errorf("check positions: %w", err)
	}
	if len(unfillable) > 0 {
		titles := make([]string, len(unfillable))
		for i, p := range unfillable {
			titles[i] = p.Title
		}
		return fmt.Errorf("positions without approved candidates or abstention: %v: %w", titles, domain.ErrInvalidPosition)
	}
	return nil
}
