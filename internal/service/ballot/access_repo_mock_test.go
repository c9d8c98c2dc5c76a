package ballot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ accessRepo = &accessRepoMock{}

type accessRepoMock struct {
	GetFunc func(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID) (*domain.VoterAccess, error)
	RecordVoteFunc func(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID, positionID uuid.UUID) (*domain.VoterAccess, error)

	calls struct {
		Get []struct {
			Ctx context.Context
			VoterID uuid.UUID
			ElectionID uuid.UUID
		}
		RecordVote []struct {
			Ctx context.Context
			VoterID uuid.UUID
			ElectionID uuid.UUID
			PositionID uuid.UUID
		}
	}
	lockGet sync.RWMutex
	lockRecordVote sync.RWMutex
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

func (mock *accessRepoMock) RecordVote(ctx context.Context, voterID uuid.UUID, electionID uuid.UUID, positionID uuid.UUID) (*domain.VoterAccess, error) {
	if mock.RecordVoteFunc == nil {
		panic("accessRepoMock.RecordVoteFunc: method is nil but accessRepo.RecordVote was just called")
	}
	callInfo := struct {
		Ctx context.Context
		VoterID uuid.UUID
		ElectionID uuid.UUID
		PositionID uuid.UUID
	}{
		Ctx: ctx,
		VoterID: voterID,
		ElectionID: electionID,
		PositionID: positionID,
	}
	mock.lockRecordVote.Lock()
	mock.calls.RecordVote = append(mock.calls.RecordVote, callInfo)
	mock.lockRecordVote.Unlock()
	return mock.RecordVoteFunc(ctx, voterID, electionID, positionID)
}

func (mock *accessRepoMock) RecordVoteCalls() []struct {
	Ctx context.Context
	VoterID uuid.UUID
	ElectionID uuid.UUID
	PositionID uuid.UUID
} {
	mock.lockRecordVote.RLock()
	calls := mock.calls.RecordVote
	mock.lockRecordVote.RUnlock()
	return calls
}
