package ballot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ electionRepo = &electionRepoMock{}

type electionRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Election, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *electionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	if mock.GetByIDFunc == nil {
		panic("electionRepoMock.GetByIDFunc: method is nil but electionRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id uuid.UUID
	}{
		Ctx: ctx,
		Id: id,
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *electionRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
