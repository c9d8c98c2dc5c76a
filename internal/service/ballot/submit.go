package ballot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/auth"
	"github.com/openballot/elections-backend/internal/domain"
	"github.com/openballot/elections-backend/internal/notify"
)

// SubmitInput carries one ballot submission.
type SubmitInput struct {
	VoterID      uuid.UUID
	ElectionID   uuid.UUID
	PositionID   uuid.UUID
	CandidateID  *uuid.UUID // nil means abstention
	SessionToken string
}

// Summary is what the voter gets back: proof of participation, not of choice.
type Summary struct {
	VoteID        uuid.UUID
	ReceiptNumber string
	CastAt        time.Time
	Abstained     bool
}

// SubmitBallot runs the intake pipeline. Validation is ordered and fails fast
// with a typed error per step; the vote insert and ledger update commit in one
// transaction, with the storage-level uniqueness constraint on
// (election, voter, position) as the final arbiter against concurrent
// duplicates.
func (s *Service) SubmitBallot(ctx context.Context, in SubmitInput) (*Summary, error) {
	now := s.now()

	// 1. Election accepts votes right now.
	election, err := s.elections.GetByID(ctx, in.ElectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("election %s: %w", in.ElectionID, domain.ErrVotingNotOpen)
		}
		return nil, fmt.Errorf("load election: %w", err)
	}
	if !election.CanAcceptVotes(now) {
		return nil, fmt.Errorf("election %s (%s/%s): %w",
			in.ElectionID, election.Status, election.Phase, domain.ErrVotingNotOpen)
	}

	// 2. Position belongs to the election.
	position, err := s.positions.GetByID(ctx, in.PositionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("position %s: %w", in.PositionID, domain.ErrInvalidPosition)
		}
		return nil, fmt.Errorf("load position: %w", err)
	}
	if position.ElectionID != in.ElectionID {
		return nil, fmt.Errorf("position %s belongs to another election: %w", in.PositionID, domain.ErrInvalidPosition)
	}

	// 3. Candidate exists, matches the position, and is approved. Abstention
	// skips this step but must be allowed by the position.
	if in.CandidateID == nil {
		if !position.AllowAbstention {
			return nil, fmt.Errorf("position %s does not allow abstention: %w", in.PositionID, domain.ErrInvalidCandidate)
		}
	} else {
		candidate, err := s.candidates.GetByID(ctx, *in.CandidateID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("candidate %s: %w", *in.CandidateID, domain.ErrInvalidCandidate)
			}
			return nil, fmt.Errorf("load candidate: %w", err)
		}
		if candidate.PositionID != in.PositionID || !candidate.IsApproved() {
			return nil, fmt.Errorf("candidate %s: %w", *in.CandidateID, domain.ErrInvalidCandidate)
		}
	}

	// 4. Session token is valid, bound to this triple, and unconsumed.
	session, err := s.validateSession(ctx, in, now)
	if err != nil {
		return nil, err
	}

	// 5. Access ledger confirms eligibility and non-duplication.
	access, err := s.access.Get(ctx, in.VoterID, in.ElectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("voter %s: %w", in.VoterID, domain.ErrNotEligible)
		}
		return nil, fmt.Errorf("load access: %w", err)
	}
	switch {
	case access.Status == domain.AccessStatusRevoked:
		return nil, fmt.Errorf("voter %s: %w", in.VoterID, domain.ErrAccessRevoked)
	case !access.IsEligibleFor(in.PositionID):
		return nil, fmt.Errorf("position %s: %w", in.PositionID, domain.ErrNotEligible)
	case access.HasVotedFor(in.PositionID):
		return nil, fmt.Errorf("position %s: %w", in.PositionID, domain.ErrAlreadyVoted)
	}

	// 6. Defensive re-check for an existing vote row. Narrows the race
	// window; the unique constraint at insert closes it.
	exists, err := s.votes.ExistsTriple(ctx, in.ElectionID, in.VoterID, in.PositionID)
	if err != nil {
		return nil, fmt.Errorf("check existing vote: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("position %s: %w", in.PositionID, domain.ErrAlreadyVoted)
	}

	code, err := s.codes.GetByVoterElection(ctx, in.VoterID, in.ElectionID)
	if err != nil {
		return nil, fmt.Errorf("load secret code: %w", err)
	}

	// 8 (computed before 7 so the hash lands on the inserted row). Receipt
	// binds the triple, the timestamp, and the session token.
	receiptHash, receiptNumber := auth.ComputeReceipt(
		in.ElectionID, in.VoterID, in.PositionID, now, in.SessionToken, s.cfg.ReceiptPrefix,
	)

	vote := &domain.Vote{
		ID:            uuid.New(),
		ElectionID:    in.ElectionID,
		PositionID:    in.PositionID,
		VoterID:       in.VoterID,
		CandidateID:   in.CandidateID,
		SecretCodeID:  code.ID,
		SessionID:     session.ID,
		Status:        domain.VoteStatusCast,
		ReceiptHash:   receiptHash,
		ReceiptNumber: receiptNumber,
		Fingerprint:   session.Fingerprint,
		CastAt:        now,
	}

	// 7. Vote insert, ledger update, session consumption, and use counter in
	// one transaction. None of them is observable without the others.
	var created *domain.Vote
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.access.RecordVote(ctx, in.VoterID, in.ElectionID, in.PositionID); err != nil {
			return err
		}
		var err error
		created, err = s.votes.Create(ctx, vote)
		if err != nil {
			return err
		}
		if _, err := s.sessions.MarkUsed(ctx, session.ID); err != nil {
			return err
		}
		if _, err := s.codes.IncrementUse(ctx, code.ID); err != nil {
			return err
		}
		_, err = s.votes.AppendEvent(ctx, &domain.VoteEvent{
			ID:     uuid.New(),
			VoteID: created.ID,
			Type:   domain.VoteEventCast,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("commit ballot: %w", err)
	}

	s.log.InfoContext(ctx, "ballot cast",
		"election_id", in.ElectionID,
		"position_id", in.PositionID,
		"vote_id", created.ID,
		"abstained", created.IsAbstention(),
	)

	// 9. Confirmation is fire-and-forget: it never blocks or fails the
	// ballot response.
	s.dispatchConfirmation(ctx, election, position, created)

	return &Summary{
		VoteID:        created.ID,
		ReceiptNumber: created.ReceiptNumber,
		CastAt:        created.CastAt,
		Abstained:     created.IsAbstention(),
	}, nil
}

// validateSession checks the token signature and claims, then the stored
// session row: it must exist, be unconsumed, and be unexpired as of now.
func (s *Service) validateSession(ctx context.Context, in SubmitInput, now time.Time) (*domain.VotingSession, error) {
	claims, err := s.tokens.ValidateToken(in.SessionToken)
	if err != nil {
		return nil, fmt.Errorf("session token: %w", domain.ErrInvalidCredential)
	}
	if claims.VoterID != in.VoterID || claims.ElectionID != in.ElectionID || claims.PositionID != in.PositionID {
		return nil, fmt.Errorf("session token bound to a different ballot: %w", domain.ErrInvalidCredential)
	}

	session, err := s.sessions.GetByTokenHash(ctx, auth.HashToken(in.SessionToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown session: %w", domain.ErrInvalidCredential)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.IsUsed() {
		return nil, fmt.Errorf("session already consumed: %w", domain.ErrInvalidCredential)
	}
	if session.IsExpired(now) {
		return nil, fmt.Errorf("session expired: %w", domain.ErrInvalidCredential)
	}

	return session, nil
}

// dispatchConfirmation sends the confirmation in a detached goroutine with its
// own timeout, outliving the request context.
func (s *Service) dispatchConfirmation(ctx context.Context, election *domain.Election, position *domain.Position, vote *domain.Vote) {
	detached := context.WithoutCancel(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(detached, s.cfg.NotifyTimeout)
		defer cancel()

		err := s.sender.SendVoteConfirmation(sendCtx, notify.Confirmation{
			VoterID:       vote.VoterID,
			ElectionID:    vote.ElectionID,
			PositionID:    vote.PositionID,
			ElectionTitle: election.Title,
			PositionTitle: position.Title,
			ReceiptNumber: vote.ReceiptNumber,
			CastAt:        vote.CastAt,
		})
		if err != nil {
			s.log.ErrorContext(sendCtx, "vote confirmation failed", "error", err, "vote_id", vote.ID)
		}
	}()
}
