package credential

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ accessRepo = &accessRepoMock{}

type accessRepoMock struct {
	GrantFunc func(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID, eligible []uuid.UUID) (*domain.VoterAccess, error)
	SetStatusFunc func(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID, status domain.AccessStatus) (*domain.VoterAccess, error)
	GetFunc func(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID) (*domain.VoterAccess, error)

	calls struct {
		Grant []struct {
			Ctx context.Context
			VoterID uuid.UUID
			ElectionID uuid.UUID
			Eligible []uuid.UUID
		}
		SetStatus []struct {
			Ctx context.Context
			VoterID uuid.UUID
			ElectionID uuid.UUID
			Status domain.AccessStatus
		}
		Get []struct {
			Ctx context.Context
			VoterID uuid.UUID
			ElectionID uuid.UUID
		}
	}
	lockGrant sync.RWMutex
	lockSetStatus sync.RWMutex
	lockGet sync.RWMutex
}

func (mock *accessRepoMock) Grant(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID, eligible []uuid.UUID) (*domain.VoterAccess, error) {
	if mock.GrantFunc == nil {
		panic("accessRepoMock.GrantFunc: method is nil but accessRepo.Grant was just called")
	}
	callInfo := struct {
		Ctx context.Context
		VoterID uuid.UUID
		ElectionID uuid.UUID
		Eligible []uuid.UUID
	}{
		Ctx: ctx,
		VoterID: voterID,
		ElectionID: electionID,
		Eligible: eligible,
	}
	mock.lockGrant.Lock()
	mock.calls.Grant = append(mock.calls.Grant, callInfo)
	mock.lockGrant.Unlock()
	return mock.GrantFunc(ctx, voterID, electionID, eligible)
}

func (mock *accessRepoMock) GrantCalls() []struct {
	Ctx context.Context
	VoterID uuid.UUID
	ElectionID uuid.UUID
	Eligible []uuid.UUID
} {
	mock.lockGrant.RLock()
	calls := mock.calls.Grant
	mock.lockGrant.RUnlock()
	return calls
}

func (mock *accessRepoMock) SetStatus(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID, status domain.AccessStatus) (*domain.VoterAccess, error) {
	if mock.SetStatusFunc == nil {
		panic("accessRepoMock.SetStatusFunc: method is nil but accessRepo.SetStatus was just called")
	}
	callInfo := struct {
		Ctx context.Context
		VoterID uuid.UUID
		ElectionID uuid.UUID
		Status domain.AccessStatus
	}{
		Ctx: ctx,
		VoterID: voterID,
		ElectionID: electionID,
		Status: status,
	}
	mock.lockSetStatus.Lock()
	mock.calls.SetStatus = append(mock.calls.SetStatus, callInfo)
	mock.lockSetStatus.Unlock()
	return mock.SetStatusFunc(ctx, voterID, electionID, status)
}

func (mock *accessRepoMock) SetStatusCalls() []struct {
	Ctx context.Context
	VoterID uuid.UUID
	ElectionID uuid.UUID
	Status domain.AccessStatus
} {
	mock.lockSetStatus.RLock()
	calls := mock.calls.SetStatus
	mock.lockSetStatus.RUnlock()
	return calls
}

func (mock *accessRepoMock) Get(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID) (*domain.VoterAccess, error) {
	if mock.GetFunc == nil {
		panic("accessRepoMock.GetFunc: method is nil but accessRepo.Get was just called")
	}
	callInfo := struct {
		Ctx context.Context
		VoterID uuid.UUID
		ElectionID uuid.UUID
	}{
		Ctx: ctx,
		VoterID: voterID,
		ElectionID: electionID,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, voterID, electionID)
}

func (mock *accessRepoMock) GetCalls() []struct {
	Ctx context.Context
	VoterID uuid.UUID
	ElectionID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}
