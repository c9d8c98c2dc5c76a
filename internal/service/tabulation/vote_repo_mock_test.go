package tabulation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openballot/elections-backend/internal/adapter/postgres/vote"
	"github.com/openballot/elections-backend/internal/domain"
)

var _ voteRepo = &voteRepoMock{}

type voteRepoMock struct {
	CountedByPositionFunc func(ctx context.Context, electionID uuid.UUID, positionID uuid.UUID) ([]*domain.Vote, error)
	CountDistinctVotersFunc func(ctx context.Context, electionID uuid.UUID) (int, error)
	CountByElectionFunc func(ctx context.Context, electionID uuid.UUID) (int, error)
	FindDuplicateTriplesFunc func(ctx context.Context, electionID uuid.UUID) ([]vote.DuplicateTriple, error)

	calls struct {
		CountedByPosition []struct {
			Ctx context.Context
			ElectionID uuid.UUID
			PositionID uuid.UUID
		}
		CountDistinctVoters []struct {
			Ctx context.Context
			ElectionID uuid.UUID
		}
		CountByElection []struct {
			Ctx context.Context
			ElectionID uuid.UUID
		}
		FindDuplicateTriples []struct {
			Ctx context.Context
			ElectionID uuid.UUID
		}
	}
	lockCountedByPosition sync.RWMutex
	lockCountDistinctVoters sync.RWMutex
	lockCountByElection sync.RWMutex
	lockFindDuplicateTriples sync.RWMutex
}

func (mock *voteRepoMock) CountedByPosition(ctx context.Context, electionID uuid.UUID, positionID uuid.UUID) ([]*domain.Vote, error) {
	if mock.CountedByPositionFunc == nil {
		panic("voteRepoMock.CountedByPositionFunc: method is nil but voteRepo.CountedByPosition was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ElectionID uuid.UUID
		PositionID uuid.UUID
	}{
		Ctx: ctx,
		ElectionID: electionID,
		PositionID: positionID,
	}
	mock.lockCountedByPosition.Lock()
	mock.calls.CountedByPosition = append(mock.calls.CountedByPosition, callInfo)
	mock.lockCountedByPosition.Unlock()
	return mock.CountedByPositionFunc(ctx, electionID, positionID)
}

func (mock *voteRepoMock) CountedByPositionCalls() []struct {
	Ctx context.Context
	ElectionID uuid.UUID
	PositionID uuid.UUID
} {
	mock.lockCountedByPosition.RLock()
	calls := mock.calls.CountedByPosition
	mock.lockCountedByPosition.RUnlock()
	return calls
}

func (mock *voteRepoMock) CountDistinctVoters(ctx context.Context, electionID uuid.UUID) (int, error) {
	if mock.CountDistinctVotersFunc == nil {
		panic("voteRepoMock.CountDistinctVotersFunc: method is nil but voteRepo.CountDistinctVoters was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ElectionID uuid.UUID
	}{
		Ctx: ctx,
		ElectionID: electionID,
	}
	mock.lockCountDistinctVoters.Lock()
	mock.calls.CountDistinctVoters = append(mock.calls.CountDistinctVoters, callInfo)
	mock.lockCountDistinctVoters.Unlock()
	return mock.CountDistinctVotersFunc(ctx, electionID)
}

func (mock *voteRepoMock) CountDistinctVotersCalls() []struct {
	Ctx context.Context
	ElectionID uuid.UUID
} {
	mock.lockCountDistinctVoters.RLock()
	calls := mock.calls.CountDistinctVoters
	mock.lockCountDistinctVoters.RUnlock()
	return calls
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

func (mock *voteRepoMock) FindDuplicateTriples(ctx context.Context, electionID uuid.UUID) ([]vote.DuplicateTriple, error) {
	if mock.FindDuplicateTriplesFunc == nil {
		panic("voteRepoMock.FindDuplicateTriplesFunc: method is nil but voteRepo.FindDuplicateTriples was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ElectionID uuid.UUID
	}{
		Ctx: ctx,
		ElectionID: electionID,
	}
	mock.lockFindDuplicateTriples.Lock()
	mock.calls.FindDuplicateTriples = append(mock.calls.FindDuplicateTriples, callInfo)
	mock.lockFindDuplicateTriples.Unlock()
	return mock.FindDuplicateTriplesFunc(ctx, electionID)
}

func (mock *voteRepoMock) FindDuplicateTriplesCalls() []struct {
	Ctx context.Context
	ElectionID uuid.UUID
} {
	mock.lockFindDuplicateTriples.RLock()
	calls := mock.calls.FindDuplicateTriples
	mock.lockFindDuplicateTriples.RUnlock()
	return calls
}
