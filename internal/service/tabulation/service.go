// Package tabulation computes election results from the vote records.
// Tabulation is a pure function of the current vote set: re-running it with no
// new votes produces a byte-identical cached payload.
package tabulation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/adapter/postgres/vote"
	"github.com/openballot/elections-backend/internal/domain"
)

// electionRepo defines the election repository interface needed by the service.
type electionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
}

// positionRepo defines the position repository interface needed by the service.
type positionRepo interface {
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.Position, error)
}

// candidateRepo defines the candidate repository interface needed by the service.
type candidateRepo interface {
	ListApprovedByPosition(ctx context.Context, positionID uuid.UUID) ([]*domain.Candidate, error)
}

// voteRepo defines the vote repository interface needed by the service.
type voteRepo interface {
	CountedByPosition(ctx context.Context, electionID, positionID uuid.UUID) ([]*domain.Vote, error)
	CountDistinctVoters(ctx context.Context, electionID uuid.UUID) (int, error)
	CountByElection(ctx context.Context, electionID uuid.UUID) (int, error)
	FindDuplicateTriples(ctx context.Context, electionID uuid.UUID) ([]vote.DuplicateTriple, error)
}

// resultRepo defines the result-cache interface needed by the service.
type resultRepo interface {
	Upsert(ctx context.Context, res *domain.ElectionResult, voteCount int) error
	Get(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, int, error)
}

// Service implements tabulation operations.
type Service struct {
	log        *slog.Logger
	elections  electionRepo
	positions  positionRepo
	candidates candidateRepo
	votes      voteRepo
	results    resultRepo
	now        func() time.Time
}

// NewService creates a new tabulation service instance.
func NewService(
	logger *slog.Logger,
	elections electionRepo,
	positions positionRepo,
	candidates candidateRepo,
	votes voteRepo,
	results resultRepo,
) *Service {
	return &Service{
		log:        logger.With("service", "tabulation"),
		elections:  elections,
		positions:  positions,
		candidates: candidates,
		votes:      votes,
		results:    results,
		now:        time.Now,
	}
}
