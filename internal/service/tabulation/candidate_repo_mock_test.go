package tabulation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ candidateRepo = &candidateRepoMock{}

type candidateRepoMock struct {
	ListApprovedByPositionFunc func(ctx context.Context, positionID uuid.UUID) ([]*domain.Candidate, error)

	calls struct {
		ListApprovedByPosition []struct {
			Ctx context.Context
			PositionID uuid.UUID
		}
	}
	lockListApprovedByPosition sync.RWMutex
}

func (mock *candidateRepoMock) ListApprovedByPosition(ctx context.Context, positionID uuid.UUID) ([]*domain.Candidate, error) {
	if mock.ListApprovedByPositionFunc == nil {
		panic("candidateRepoMock.ListApprovedByPositionFunc: method is nil but candidateRepo.ListApprovedByPosition was just called")
	}
	callInfo := struct {
		Ctx context.Context
		PositionID uuid.UUID
	}{
		Ctx: ctx,
		PositionID: positionID,
	}
	mock.lockListApprovedByPosition.Lock()
	mock.calls.ListApprovedByPosition = append(mock.calls.ListApprovedByPosition, callInfo)
	mock.lockListApprovedByPosition.Unlock()
	return mock.ListApprovedByPositionFunc(ctx, positionID)
}

func (mock *candidateRepoMock) ListApprovedByPositionCalls() []struct {
	Ctx context.Context
	PositionID uuid.UUID
} {
	mock.lockListApprovedByPosition.RLock()
	calls := mock.calls.ListApprovedByPosition
	mock.lockListApprovedByPosition.RUnlock()
	return calls
}
