package ballot

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openballot/elections-backend/internal/domain"
)

// VerifyVote marks a CAST vote VERIFIED and appends the audit event. A vote
// can be verified once; a second attempt returns ErrConflict.
func (s *Service) VerifyVote(ctx context.Context, voteID, verifierID uuid.UUID, method domain.VerificationMethod) (*domain.Vote, error) {
	if !method.IsValid() {
		return nil, fmt.Errorf("verification method %q: %w", method, domain.ErrValidation)
	}

	vote, err := s.votes.GetByID(ctx, voteID)
	if err != nil {
		return nil, err
	}
	if vote.Status != domain.VoteStatusCast {
		return nil, fmt.Errorf("vote %s is %s: %w", voteID, vote.Status, domain.ErrConflict)
	}

	var updated *domain.Vote
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.votes.UpdateStatus(ctx, voteID, domain.VoteStatusVerified)
		if err != nil {
			return err
		}
		_, err = s.votes.AppendEvent(ctx, &domain.VoteEvent{
			ID:      uuid.New(),
			VoteID:  voteID,
			Type:    domain.VoteEventVerified,
			ActorID: &verifierID,
			Method:  &method,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("verify vote: %w", err)
	}

	s.log.InfoContext(ctx, "vote verified", "vote_id", voteID, "method", method)
	return updated, nil
}

// DisputeVote flags a vote DISPUTED for manual review, with an audit event
// carrying the reason.
func (s *Service) DisputeVote(ctx context.Context, voteID, actorID uuid.UUID, reason string) (*domain.Vote, error) {
	vote, err := s.votes.GetByID(ctx, voteID)
	if err != nil {
		return nil, err
	}
	if vote.Status == domain.VoteStatusDisputed {
		return nil, fmt.Errorf("vote %s already disputed: %w", voteID, domain.ErrConflict)
	}

	var updated *domain.Vote
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.votes.UpdateStatus(ctx, voteID, domain.VoteStatusDisputed)
		if err != nil {
			return err
		}
		_, err = s.votes.AppendEvent(ctx, &domain.VoteEvent{
			ID:      uuid.New(),
			VoteID:  voteID,
			Type:    domain.VoteEventDisputed,
			ActorID: &actorID,
			Note:    reason,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("dispute vote: %w", err)
	}

	s.log.WarnContext(ctx, "vote disputed", "vote_id", voteID, "reason", reason)
	return updated, nil
}
