package ballot

import (
	"context"
	"sync"

	"github.com/openballot/elections-backend/internal/notify"
)

var _ notify.Sender = &senderMock{}

type senderMock struct {
	SendVoteConfirmationFunc func(ctx context.Context, c notify.Confirmation) error

	calls struct {
		SendVoteConfirmation []struct {
			Ctx context.Context
			C notify.Confirmation
		}
	}
	lockSendVoteConfirmation sync.RWMutex
}

func (mock *senderMock) SendVoteConfirmation(ctx context.Context, c notify.Confirmation) error {
	if mock.SendVoteConfirmationFunc == nil {
		panic("senderMock.SendVoteConfirmationFunc: method is nil but notify.Sender.SendVoteConfirmation was just called")
	}
	callInfo := struct {
		Ctx context.Context
		C notify.Confirmation
	}{
		Ctx: ctx,
		C: c,
	}
	mock.lockSendVoteConfirmation.Lock()
	mock.calls.SendVoteConfirmation = append(mock.calls.SendVoteConfirmation, callInfo)
	mock.lockSendVoteConfirmation.Unlock()
	return mock.SendVoteConfirmationFunc(ctx, c)
}

func (mock *senderMock) SendVoteConfirmationCalls() []struct {
	Ctx context.Context
	C notify.Confirmation
} {
	mock.lockSendVoteConfirmation.RLock()
	calls := mock.calls.SendVoteConfirmation
	mock.lockSendVoteConfirmation.RUnlock()
	return calls
}
