package election

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ positionRepo = &positionRepoMock{}

type positionRepoMock struct {
	ListUnfillableFunc func(ctx context.Context, electionID uuid.UUID) ([]*domain.Position, error)

	calls struct {
		ListUnfillable []struct {
			Ctx context.Context
			ElectionID uuid.UUID
		}
	}
	lockListUnfillable sync.RWMutex
}

func (mock *positionRepoMock) ListUnfillable(ctx context.Context, electionID uuid.UUID) ([]*domain.Position, error) {
	if mock.ListUnfillableFunc == nil {
		panic("positionRepoMock.ListUnfillableFunc: method is nil but positionRepo.ListUnfillable was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ElectionID uuid.UUID
	}{
		Ctx: ctx,
		ElectionID: electionID,
	}
	mock.lockListUnfillable.Lock()
	mock.calls.ListUnfillable = append(mock.calls.ListUnfillable, callInfo)
	mock.lockListUnfillable.Unlock()
	return mock.ListUnfillableFunc(ctx, electionID)
}

func (mock *positionRepoMock) ListUnfillableCalls() []struct {
	Ctx context.Context
	ElectionID uuid.UUID
} {
	mock.lockListUnfillable.RLock()
	calls := mock.calls.ListUnfillable
	mock.lockListUnfillable.RUnlock()
	return calls
}
