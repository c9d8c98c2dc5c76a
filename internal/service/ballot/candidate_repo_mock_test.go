package ballot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ candidateRepo = &candidateRepoMock{}

type candidateRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Candidate, error)

	calls struct {
		GetByID []struct {
			Ctx context.Context
			Id uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
}

func (mock *candidateRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Candidate, error) {
	if mock.GetByIDFunc == nil {
		panic("candidateRepoMock.GetByIDFunc: method is nil but candidateRepo.GetByID was just called")
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

func (mock *candidateRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
