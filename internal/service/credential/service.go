// Package credential validates voter secret codes, enforces the sliding-window
// rate limit, and issues voting-session tokens. It also owns the access-ledger
// lifecycle: grants, revocations, and code issuance.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/auth"
	"github.com/openballot/elections-backend/internal/config"
	"github.com/openballot/elections-backend/internal/domain"
)

// codeRepo defines the secret-code repository interface needed by the service.
type codeRepo interface {
	Create(ctx context.Context, c *domain.SecretCode) (*domain.SecretCode, error)
	Reissue(ctx context.Context, voterID, electionID uuid.UUID, codeHash string, expiresAt time.Time) (*domain.SecretCode, error)
	GetByVoterElection(ctx context.Context, voterID, electionID uuid.UUID) (*domain.SecretCode, error)
	RecordFailure(ctx context.Context, id uuid.UUID, windowCutoff time.Time) (*domain.SecretCode, error)
	ResetFailures(ctx context.Context, id uuid.UUID) error
}

// accessRepo defines the voter-access repository interface needed by the service.
type accessRepo interface {
	Grant(ctx context.Context, voterID, electionID uuid.UUID, eligible []uuid.UUID) (*domain.VoterAccess, error)
	SetStatus(ctx context.Context, voterID, electionID uuid.UUID, status domain.AccessStatus) (*domain.VoterAccess, error)
	Get(ctx context.Context, voterID, electionID uuid.UUID) (*domain.VoterAccess, error)
}

// electionRepo defines the election repository interface needed by the service.
type electionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	AdjustEligibleVoters(ctx context.Context, id uuid.UUID, delta int) (*domain.Election, error)
}

// sessionRepo defines the voting-session repository interface needed by the service.
type sessionRepo interface {
	Create(ctx context.Context, s *domain.VotingSession) (*domain.VotingSession, error)
}

// sessionManager defines the session token interface needed by the service.
type sessionManager interface {
	IssueToken(voterID, electionID, positionID uuid.UUID) (raw string, hash string, expiresAt time.Time, err error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements credential and access operations.
type Service struct {
	log       *slog.Logger
	codes     codeRepo
	access    accessRepo
	elections electionRepo
	sessions  sessionRepo
	tokens    sessionManager
	tx        txManager
	authCfg   config.AuthConfig
	votingCfg config.VotingConfig
	now       func() time.Time
}

// NewService creates a new credential service instance.
func NewService(
	logger *slog.Logger,
	codes codeRepo,
	access accessRepo,
	elections electionRepo,
	sessions sessionRepo,
	tokens sessionManager,
	tx txManager,
	authCfg config.AuthConfig,
	votingCfg config.VotingConfig,
) *Service {
	return &Service{
		log:       logger.With("service", "credential"),
		codes:     codes,
		access:    access,
		elections: elections,
		sessions:  sessions,
		tokens:    tokens,
		tx:        tx,
		authCfg:   authCfg,
		votingCfg: votingCfg,
		now:       time.Now,
	}
}

// ValidateInput carries one credential validation attempt.
type ValidateInput struct {
	VoterID    uuid.UUID
	ElectionID uuid.UUID
	PositionID uuid.UUID
	Code       string
	IP         string
	UserAgent  string
}

// Session is the successful outcome of a credential validation.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// ValidateCredential checks the presented code against the stored hash and,
// on success, issues a session token bound to (voter, election, position).
//
// The rate limit is checked before the code: once the failure threshold is
// reached inside the window, even a correct code returns ErrRateLimited.
// Failure counters are per (voter, election); one voter being throttled never
// affects another.
func (s *Service) ValidateCredential(ctx context.Context, in ValidateInput) (*Session, error) {
	now := s.now()

	rec, err := s.codes.GetByVoterElection(ctx, in.VoterID, in.ElectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no code issued: %w", domain.ErrInvalidCredential)
		}
		return nil, fmt.Errorf("load secret code: %w", err)
	}

	if s.isRateLimited(rec, now) {
		s.log.WarnContext(ctx, "credential rate limited",
			"voter_id", in.VoterID, "election_id", in.ElectionID, "failed_count", rec.FailedCount)
		return nil, fmt.Errorf("too many failed attempts: %w", domain.ErrRateLimited)
	}

	if rec.IsExpired(now) {
		return nil, fmt.Errorf("code expired: %w", domain.ErrInvalidCredential)
	}

	if !auth.CompareSecretCode(rec.CodeHash, in.Code) {
		cutoff := now.Add(-s.votingCfg.RateLimitWindow)
		if _, err := s.codes.RecordFailure(ctx, rec.ID, cutoff); err != nil {
			s.log.ErrorContext(ctx, "record credential failure", "error", err, "voter_id", in.VoterID)
		}
		return nil, fmt.Errorf("code mismatch: %w", domain.ErrInvalidCredential)
	}

	if rec.FailedCount > 0 {
		if err := s.codes.ResetFailures(ctx, rec.ID); err != nil {
			s.log.ErrorContext(ctx, "reset credential failures", "error", err, "voter_id", in.VoterID)
		}
	}

	access, err := s.access.Get(ctx, in.VoterID, in.ElectionID)
	if err != nil {
		return nil, err
	}
	if access.Status == domain.AccessStatusRevoked {
		return nil, fmt.Errorf("voter %s: %w", in.VoterID, domain.ErrAccessRevoked)
	}
	if !access.IsEligibleFor(in.PositionID) {
		return nil, fmt.Errorf("position %s: %w", in.PositionID, domain.ErrNotEligible)
	}

	raw, hash, expiresAt, err := s.tokens.IssueToken(in.VoterID, in.ElectionID, in.PositionID)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	session := &domain.VotingSession{
		ID:          uuid.New(),
		VoterID:     in.VoterID,
		ElectionID:  in.ElectionID,
		PositionID:  in.PositionID,
		TokenHash:   hash,
		Fingerprint: auth.Fingerprint(in.IP, in.UserAgent, s.authCfg.FingerprintSalt),
		ExpiresAt:   expiresAt,
	}
	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.log.InfoContext(ctx, "session issued",
		"voter_id", in.VoterID, "election_id", in.ElectionID, "position_id", in.PositionID)

	return &Session{Token: raw, ExpiresAt: expiresAt}, nil
}

// isRateLimited reports whether the failure window is live and saturated.
func (s *Service) isRateLimited(rec *domain.SecretCode, now time.Time) bool {
	if rec.WindowStartAt == nil {
		return false
	}
	if now.Sub(*rec.WindowStartAt) >= s.votingCfg.RateLimitWindow {
		return false
	}
	return rec.FailedCount >= s.votingCfg.RateLimitMaxFailures
}

// IssueCode generates a fresh secret code for (voter, election), stores its
// bcrypt hash, and returns the plaintext exactly once. A second issuance
// replaces the previous code, but only while the election has not entered
// VOTING.
func (s *Service) IssueCode(ctx context.Context, voterID, electionID uuid.UUID) (string, error) {
	e, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return "", err
	}
	if e.Status.IsTerminal() {
		return "", fmt.Errorf("election %s is %s: %w", electionID, e.Status, domain.ErrConflict)
	}

	plaintext, err := auth.GenerateSecretCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	hash, err := auth.HashSecretCode(plaintext, s.authCfg.CodeBcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	expiresAt := s.now().Add(s.authCfg.CodeTTL)
	code := &domain.SecretCode{
		ID:         uuid.New(),
		VoterID:    voterID,
		ElectionID: electionID,
		CodeHash:   hash,
		ExpiresAt:  expiresAt,
	}

	_, err = s.codes.Create(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return "", fmt.Errorf("store code: %w", err)
		}
		if e.Phase.Order() >= domain.PhaseVoting.Order() {
			return "", fmt.Errorf("election %s in phase %s, reissue refused: %w", electionID, e.Phase, domain.ErrConflict)
		}
		if _, err := s.codes.Reissue(ctx, voterID, electionID, hash, expiresAt); err != nil {
			return "", fmt.Errorf("reissue code: %w", err)
		}
	}

	s.log.InfoContext(ctx, "secret code issued", "voter_id", voterID, "election_id", electionID)
	return plaintext, nil
}

// GrantAccess evaluates the eligibility criteria against the voter's profile
// and, on pass, writes the access record and bumps the election's
// eligible-voter count in one transaction.
func (s *Service) GrantAccess(ctx context.Context, voterID, electionID uuid.UUID, positions []uuid.UUID, criteria domain.Criteria, profile domain.VoterProfile) (*domain.VoterAccess, error) {
	e, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if e.Status.IsTerminal() {
		return nil, fmt.Errorf("election %s is %s: %w", electionID, e.Status, domain.ErrConflict)
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("eligible positions: %w", domain.ErrValidation)
	}

	if err := criteria.Evaluate(profile); err != nil {
		return nil, fmt.Errorf("voter %s: %w: %w", voterID, domain.ErrNotEligible, err)
	}

	var granted *domain.VoterAccess
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		granted, err = s.access.Grant(ctx, voterID, electionID, positions)
		if err != nil {
			return err
		}
		_, err = s.elections.AdjustEligibleVoters(ctx, electionID, 1)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("grant access: %w", err)
	}

	s.log.InfoContext(ctx, "access granted",
		"voter_id", voterID, "election_id", electionID, "positions", len(positions))
	return granted, nil
}

// RevokeAccess marks the voter's access REVOKED and decrements the
// eligible-voter count. Already-cast ballots are untouched.
func (s *Service) RevokeAccess(ctx context.Context, voterID, electionID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		access, err := s.access.Get(ctx, voterID, electionID)
		if err != nil {
			return err
		}
		if access.Status == domain.AccessStatusRevoked {
			return fmt.Errorf("access already revoked: %w", domain.ErrConflict)
		}
		if _, err := s.access.SetStatus(ctx, voterID, electionID, domain.AccessStatusRevoked); err != nil {
			return err
		}
		_, err = s.elections.AdjustEligibleVoters(ctx, electionID, -1)
		return err
	})
	if err != nil {
		return fmt.Errorf("revoke access: %w", err)
	}

	s.log.InfoContext(ctx, "access revoked", "voter_id", voterID, "election_id", electionID)
	return nil
}

// VoterStatus is what a ballot UI needs to render a voter's state.
type VoterStatus struct {
	ElectionStatus    domain.ElectionStatus
	ElectionPhase     domain.ElectionPhase
	AccessStatus      domain.AccessStatus
	EligiblePositions []uuid.UUID
	VotedPositions    []uuid.UUID
	PendingPositions  []uuid.UUID // eligible, not yet voted, access still active
}

// GetVoterStatus returns the voter's standing in the election.
func (s *Service) GetVoterStatus(ctx context.Context, voterID, electionID uuid.UUID) (*VoterStatus, error) {
	e, err := s.elections.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	access, err := s.access.Get(ctx, voterID, electionID)
	if err != nil {
		return nil, err
	}

	var pending []uuid.UUID
	for _, positionID := range access.EligiblePositions {
		if access.CanVoteForPosition(positionID) {
			pending = append(pending, positionID)
		}
	}

	return &VoterStatus{
		ElectionStatus:    e.Status,
		ElectionPhase:     e.Phase,
		AccessStatus:      access.Status,
		EligiblePositions: access.EligiblePositions,
		VotedPositions:    access.VotedPositions,
		PendingPositions:  pending,
	}, nil
}
