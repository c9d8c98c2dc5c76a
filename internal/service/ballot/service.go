// Package ballot implements the vote intake pipeline and vote verification.
// Every submission walks an ordered validation chain; each step fails with its
// own typed error so callers can distinguish a closed election from a bad
// credential from a duplicate ballot.
package ballot

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/auth"
	"github.com/openballot/elections-backend/internal/config"
	"github.com/openballot/elections-backend/internal/domain"
	"github.com/openballot/elections-backend/internal/notify"
)

// electionRepo defines the election repository interface needed by the service.
type electionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
}

// positionRepo defines the position repository interface needed by the service.
type positionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Position, error)
}

// candidateRepo defines the candidate repository interface needed by the service.
type candidateRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)
}

// sessionRepo defines the voting-session repository interface needed by the service.
type sessionRepo interface {
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.VotingSession, error)
	MarkUsed(ctx context.Context, id uuid.UUID) (*domain.VotingSession, error)
}

// accessRepo defines the voter-access repository interface needed by the service.
type accessRepo interface {
	Get(ctx context.Context, voterID, electionID uuid.UUID) (*domain.VoterAccess, error)
	RecordVote(ctx context.Context, voterID, electionID, positionID uuid.UUID) (*domain.VoterAccess, error)
}

// voteRepo defines the vote repository interface needed by the service.
type voteRepo interface {
	Create(ctx context.Context, v *domain.Vote) (*domain.Vote, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vote, error)
	ExistsTriple(ctx context.Context, electionID, voterID, positionID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VoteStatus) (*domain.Vote, error)
	AppendEvent(ctx context.Context, e *domain.VoteEvent) (*domain.VoteEvent, error)
}

// codeRepo defines the secret-code repository interface needed by the service.
type codeRepo interface {
	GetByVoterElection(ctx context.Context, voterID, electionID uuid.UUID) (*domain.SecretCode, error)
	IncrementUse(ctx context.Context, id uuid.UUID) (*domain.SecretCode, error)
}

// tokenValidator defines the session token interface needed by the service.
type tokenValidator interface {
	ValidateToken(tokenString string) (auth.SessionClaims, error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements ballot intake and verification.
type Service struct {
	log        *slog.Logger
	elections  electionRepo
	positions  positionRepo
	candidates candidateRepo
	sessions   sessionRepo
	access     accessRepo
	votes      voteRepo
	codes      codeRepo
	tokens     tokenValidator
	tx         txManager
	sender     notify.Sender
	cfg        config.VotingConfig
	now        func() time.Time
}

// NewService creates a new ballot service instance.
func NewService(
	logger *slog.Logger,
	elections electionRepo,
	positions positionRepo,
	candidates candidateRepo,
	sessions sessionRepo,
	access accessRepo,
	votes voteRepo,
	codes codeRepo,
	tokens tokenValidator,
	tx txManager,
	sender notify.Sender,
	cfg config.VotingConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "ballot"),
		elections:  elections,
		positions:  positions,
		candidates: candidates,
		sessions:   sessions,
		access:     access,
		votes:      votes,
		codes:      codes,
		tokens:     tokens,
		tx:         tx,
		sender:     sender,
		cfg:        cfg,
		now:        time.Now,
	}
}
