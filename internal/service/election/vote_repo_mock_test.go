package election

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ voteRepo = &voteRepoMock{}

type voteRepoMock struct {
	CountByElectionFunc func(ctx context.Context, electionID uuid.UUID) (int, error)

	calls struct {
		CountByElection []struct {
			Ctx context.Context
			ElectionID uuid.UUID
		}
	}
	lockCountByElection sync.RWMutex
}

func (mock *voteRepoMock) CountByElection(ctx context.Context, electionID uuid.UUID) (int, error) {
	if mock.CountByElectionFunc == nil {
		panic("voteRepoMock.CountByElectionFunc: method is nil but voteRepo.CountByElection was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ElectionID uuid.UUID
	}{
		Ctx: ctx,
		ElectionID: electionID,
	}
	mock.lockCountByElection.Lock()
	mock.calls.CountByElection = append(mock.calls.CountByElection, callInfo)
	mock.lockCountByElection.Unlock()
	return mock.CountByElectionFunc(ctx, electionID)
}

func (mock *voteRepoMock) CountByElectionCalls() []struct {
	Ctx context.Context
	ElectionID uuid.UUID
} {
	mock.lockCountByElection.RLock()
	calls := mock.calls.CountByElection
	mock.lockCountByElection.RUnlock()
	return calls
}
