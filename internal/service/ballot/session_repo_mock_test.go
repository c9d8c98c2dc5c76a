package ballot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ sessionRepo = &sessionRepoMock{}

type sessionRepoMock struct {
	GetByTokenHashFunc func(ctx context.Context, tokenHash string) (*domain.VotingSession, error)
	MarkUsedFunc func(ctx context.Context, id uuid.UUID) (*domain.VotingSession, error)

	calls struct {
		GetByTokenHash []struct {
			Ctx context.Context
			TokenHash string
		}
		MarkUsed []struct {
			Ctx context.Context
			Id uuid.UUID
		}
	}
	lockGetByTokenHash sync.RWMutex
	lockMarkUsed sync.RWMutex
}

func (mock *sessionRepoMock) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.VotingSession, error) {
	if mock.GetByTokenHashFunc == nil {
		panic("sessionRepoMock.GetByTokenHashFunc: method is nil but sessionRepo.GetByTokenHash was just called")
	}
	callInfo := struct {
		Ctx context.Context
		TokenHash string
	}{
		Ctx: ctx,
		TokenHash: tokenHash,
	}
	mock.lockGetByTokenHash.Lock()
	mock.calls.GetByTokenHash = append(mock.calls.GetByTokenHash, callInfo)
	mock.lockGetByTokenHash.Unlock()
	return mock.GetByTokenHashFunc(ctx, tokenHash)
}

func (mock *sessionRepoMock) GetByTokenHashCalls() []struct {
	Ctx context.Context
	TokenHash string
} {
	mock.lockGetByTokenHash.RLock()
	calls := mock.calls.GetByTokenHash
	mock.lockGetByTokenHash.RUnlock()
	return calls
}

func (mock *sessionRepoMock) MarkUsed(ctx context.Context, id uuid.UUID) (*domain.VotingSession, error) {
	if mock.MarkUsedFunc == nil {
		panic("sessionRepoMock.MarkUsedFunc: method is nil but sessionRepo.MarkUsed was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id uuid.UUID
	}{
		Ctx: ctx,
		Id: id,
	}
	mock.lockMarkUsed.Lock()
	mock.calls.MarkUsed = append(mock.calls.MarkUsed, callInfo)
	mock.lockMarkUsed.Unlock()
	return mock.MarkUsedFunc(ctx, id)
}

func (mock *sessionRepoMock) MarkUsedCalls() []struct {
	Ctx context.Context
	Id uuid.UUID
} {
	mock.lockMarkUsed.RLock()
	calls := mock.calls.MarkUsed
	mock.lockMarkUsed.RUnlock()
	return calls
}
