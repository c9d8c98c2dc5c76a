package tabulation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ resultRepo = &resultRepoMock{}

type resultRepoMock struct {
	UpsertFunc func(ctx context.Context, res *domain.ElectionResult, voteCount int) error
	GetFunc func(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, int, error)

	calls struct {
		Upsert []struct {
			Ctx context.Context
			Res *domain.ElectionResult
			VoteCount int
		}
		Get []struct {
			Ctx context.Context
			ElectionID uuid.UUID
		}
	}
	lockUpsert sync.RWMutex
	lockGet sync.RWMutex
}

func (mock *resultRepoMock) Upsert(ctx context.Context, res *domain.ElectionResult, voteCount int) error {
	if mock.UpsertFunc == nil {
		panic("resultRepoMock.UpsertFunc: method is nil but resultRepo.Upsert was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Res *domain.ElectionResult
		VoteCount int
	}{
		Ctx: ctx,
		Res: res,
		VoteCount: voteCount,
	}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, res, voteCount)
}

func (mock *resultRepoMock) UpsertCalls() []struct {
	Ctx context.Context
	Res *domain.ElectionResult
	VoteCount int
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

func (mock *resultRepoMock) Get(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResult, int, error) {
	if mock.GetFunc == nil {
		panic("resultRepoMock.GetFunc: method is nil but resultRepo.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ElectionID uuid.UUID
	}{
		Ctx: ctx,
		ElectionID: electionID,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, electionID)
}

func (mock *resultRepoMock) GetCalls() []struct {
	Ctx context.Context
	ElectionID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}
