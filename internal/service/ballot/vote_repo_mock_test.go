package ballot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ voteRepo = &voteRepoMock{}

type voteRepoMock struct {
	CreateFunc func(ctx context.Context, v *domain.Vote) (*domain.Vote, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Vote, error)
	ExistsTripleFunc func(ctx context.Context, electionID uuid.UUID, voterID uuid.UUID, positionID uuid.UUID) (bool, error)
	UpdateStatusFunc func(ctx context.Context, id uuid.UUID, status domain.VoteStatus) (*domain.Vote, error)
	AppendEventFunc func(ctx context.Context, e *domain.VoteEvent) (*domain.VoteEvent, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			V *domain.Vote
		}
		GetByID []struct {
			Ctx context.Context
			Id uuid.UUID
		}
		ExistsTriple []struct {
			Ctx context.Context
			ElectionID uuid.UUID
			VoterID uuid.UUID
			PositionID uuid.UUID
		}
		UpdateStatus []struct {
			Ctx context.Context
			Id uuid.UUID
			Status domain.VoteStatus
		}
		AppendEvent []struct {
			Ctx context.Context
			E *domain.VoteEvent
		}
	}
	lockCreate sync.RWMutex
	lockGetByID sync.RWMutex
	lockExistsTriple sync.RWMutex
	lockUpdateStatus sync.RWMutex
	lockAppendEvent sync.RWMutex
}

func (mock *voteRepoMock) Create(ctx context.Context, v *domain.Vote) (*domain.Vote, error) {
	if mock.CreateFunc == nil {
		panic("voteRepoMock.CreateFunc: method is nil but voteRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		V *domain.Vote
	}{
		Ctx: ctx,
		V: v,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, v)
}

func (mock *voteRepoMock) CreateCalls() []struct {
	Ctx context.Context
	V *domain.Vote
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *voteRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vote, error) {
	if mock.GetByIDFunc == nil {
		panic("voteRepoMock.GetByIDFunc: method is nil but voteRepo.GetByID was just called")
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

func (mock *voteRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	Id uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *voteRepoMock) ExistsTriple(ctx context.Context, electionID uuid.UUID, voterID uuid.UUID, positionID uuid.UUID) (bool, error) {
	if mock.ExistsTripleFunc == nil {
		panic("voteRepoMock.ExistsTripleFunc: method is nil but voteRepo.ExistsTriple was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ElectionID uuid.UUID
		VoterID uuid.UUID
		PositionID uuid.UUID
	}{
		Ctx: ctx,
		ElectionID: electionID,
		VoterID: voterID,
		PositionID: positionID,
	}
	mock.lockExistsTriple.Lock()
	mock.calls.ExistsTriple = append(mock.calls.ExistsTriple, callInfo)
	mock.lockExistsTriple.Unlock()
	return mock.ExistsTripleFunc(ctx, electionID, voterID, positionID)
}

func (mock *voteRepoMock) ExistsTripleCalls() []struct {
	Ctx context.Context
	ElectionID uuid.UUID
	VoterID uuid.UUID
	PositionID uuid.UUID
} {
	mock.lockExistsTriple.RLock()
	calls := mock.calls.ExistsTriple
	mock.lockExistsTriple.RUnlock()
	return calls
}

func (mock *voteRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.VoteStatus) (*domain.Vote, error) {
	if mock.UpdateStatusFunc == nil {
		panic("voteRepoMock.UpdateStatusFunc: method is nil but voteRepo.UpdateStatus was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id uuid.UUID
		Status domain.VoteStatus
	}{
		Ctx: ctx,
		Id: id,
		Status: status,
	}
	mock.lockUpdateStatus.Lock()
	mock.calls.UpdateStatus = append(mock.calls.UpdateStatus, callInfo)
	mock.lockUpdateStatus.Unlock()
	return mock.UpdateStatusFunc(ctx, id, status)
}

func (mock *voteRepoMock) UpdateStatusCalls() []struct {
	Ctx context.Context
	Id uuid.UUID
	Status domain.VoteStatus
} {
	mock.lockUpdateStatus.RLock()
	calls := mock.calls.UpdateStatus
	mock.lockUpdateStatus.RUnlock()
	return calls
}

func (mock *voteRepoMock) AppendEvent(ctx context.Context, e *domain.VoteEvent) (*domain.VoteEvent, error) {
	if mock.AppendEventFunc == nil {
		panic("voteRepoMock.AppendEventFunc: method is nil but voteRepo.AppendEvent was just called")
	}
	callInfo := struct {
		Ctx context.Context
		E *domain.VoteEvent
	}{
		Ctx: ctx,
		E: e,
	}
	mock.lockAppendEvent.Lock()
	mock.calls.AppendEvent = append(mock.calls.AppendEvent, callInfo)
	mock.lockAppendEvent.Unlock()
	return mock.AppendEventFunc(ctx, e)
}

func (mock *voteRepoMock) AppendEventCalls() []struct {
	Ctx context.Context
	E *domain.VoteEvent
} {
	mock.lockAppendEvent.RLock()
	calls := mock.calls.AppendEvent
	mock.lockAppendEvent.RUnlock()
	return calls
}
