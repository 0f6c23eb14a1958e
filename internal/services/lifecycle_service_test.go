package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cake-shop/internal/domain"
	"cake-shop/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const operatorChat int64 = 4242

type lifecycleFixture struct {
	svc      *LifecycleService
	repo     *mocks.MockOrderRepository
	pub      *mocks.MockPublisher
	notifier *mocks.MockOperatorNotifier
	now      time.Time
}

func newLifecycleFixture() *lifecycleFixture {
	f := &lifecycleFixture{
		repo:     new(mocks.MockOrderRepository),
		pub:      new(mocks.MockPublisher),
		notifier: new(mocks.MockOperatorNotifier),
		now:      time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewLifecycleService(f.repo, f.pub, f.notifier, operatorChat)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func callback(data string, chatID int64) domain.BotUpdate {
	return domain.BotUpdate{
		UpdateID: 1,
		CallbackQuery: &domain.CallbackQuery{
			ID:   "cb-1",
			Data: data,
			Message: &domain.BotMessage{
				MessageID: 10,
				Chat:      &domain.BotChat{ID: chatID},
			},
		},
	}
}

func TestLifecycleService_Accept(t *testing.T) {
	f := newLifecycleFixture()
	id := uuid.NewString()
	f.repo.On("UpdateStatus", mock.Anything, id, domain.StatusPreparing).Return(true, nil).Once()
	f.pub.On("Publish", mock.Anything, domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID: id, Status: domain.StatusPreparing, At: f.now,
	}).Return(nil).Once()

	res, err := f.svc.Apply(context.Background(), domain.OperatorCommand{Action: domain.ActionAccept, OrderID: id})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, domain.StatusPreparing, res.Status)
	assert.Nil(t, res.Archive)
	f.repo.AssertExpectations(t)
	f.pub.AssertExpectations(t)
}

func TestLifecycleService_ArchiveActions(t *testing.T) {
	tests := []struct {
		action  domain.OperatorAction
		outcome domain.ArchivedOutcome
	}{
		{domain.ActionDelivered, domain.OutcomeCompleted},
		{domain.ActionCancel, domain.OutcomeCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			f := newLifecycleFixture()
			id := uuid.NewString()
			rec := &domain.OrderHistoryRecord{ID: "h-1", OrderID: id, Outcome: tt.outcome, CompletedAt: f.now}
			f.repo.On("Archive", mock.Anything, id, tt.outcome, f.now).Return(rec, nil).Once()
			f.pub.On("Publish", mock.Anything, domain.EventOrderArchived, domain.OrderArchivedEvent{
				OrderID: id, Outcome: tt.outcome, CompletedAt: f.now,
			}).Return(nil).Once()

			res, err := f.svc.Apply(context.Background(), domain.OperatorCommand{Action: tt.action, OrderID: id})
			require.NoError(t, err)
			assert.True(t, res.Applied)
			assert.Same(t, rec, res.Archive)
			f.repo.AssertExpectations(t)
			f.pub.AssertExpectations(t)
		})
	}
}

func TestLifecycleService_RedeliveryIsNoop(t *testing.T) {
	f := newLifecycleFixture()
	id := uuid.NewString()
	f.repo.On("Archive", mock.Anything, id, domain.OutcomeCompleted, f.now).Return(nil, nil).Once()
	f.repo.On("UpdateStatus", mock.Anything, id, domain.StatusPreparing).Return(false, nil).Once()

	res, err := f.svc.Apply(context.Background(), domain.OperatorCommand{Action: domain.ActionDelivered, OrderID: id})
	require.NoError(t, err)
	assert.False(t, res.Applied)

	res, err = f.svc.Apply(context.Background(), domain.OperatorCommand{Action: domain.ActionAccept, OrderID: id})
	require.NoError(t, err)
	assert.False(t, res.Applied)

	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestLifecycleService_UnknownAction(t *testing.T) {
	f := newLifecycleFixture()
	_, err := f.svc.Apply(context.Background(), domain.OperatorCommand{Action: "refund", OrderID: uuid.NewString()})
	assert.ErrorIs(t, err, domain.ErrMalformedCallback)
}

func TestLifecycleService_HandleUpdate(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name   string
		update domain.BotUpdate
		setup  func(f *lifecycleFixture)
	}{
		{
			name:   "accept answers the callback",
			update: callback("accept_"+id, operatorChat),
			setup: func(f *lifecycleFixture) {
				f.repo.On("UpdateStatus", mock.Anything, id, domain.StatusPreparing).Return(true, nil).Once()
				f.pub.On("Publish", mock.Anything, domain.EventOrderStatusChanged, mock.Anything).Return(nil).Once()
				f.notifier.On("AnswerCallback", mock.Anything, "cb-1", "Заказ принят").Return(nil).Once()
			},
		},
		{
			name:   "delivered for archived order",
			update: callback("delivered_"+id, operatorChat),
			setup: func(f *lifecycleFixture) {
				f.repo.On("Archive", mock.Anything, id, domain.OutcomeCompleted, mock.Anything).Return(nil, nil).Once()
				f.notifier.On("AnswerCallback", mock.Anything, "cb-1", "Заказ не найден среди активных").Return(nil).Once()
			},
		},
		{
			name:   "unknown action",
			update: callback("refund_"+id, operatorChat),
			setup: func(f *lifecycleFixture) {
				f.notifier.On("AnswerCallback", mock.Anything, "cb-1", "Неизвестная команда").Return(nil).Once()
			},
		},
		{
			name:   "malformed order id",
			update: callback("cancel_not-a-uuid", operatorChat),
			setup: func(f *lifecycleFixture) {
				f.notifier.On("AnswerCallback", mock.Anything, "cb-1", "Неизвестная команда").Return(nil).Once()
			},
		},
		{
			name:   "archive failure",
			update: callback("cancel_"+id, operatorChat),
			setup: func(f *lifecycleFixture) {
				err := fmt.Errorf("%w: deleted 0 active rows", domain.ErrArchiveInconsistent)
				f.repo.On("Archive", mock.Anything, id, domain.OutcomeCancelled, mock.Anything).Return(nil, err).Once()
				f.notifier.On("AnswerCallback", mock.Anything, "cb-1", "Ошибка, попробуйте ещё раз").Return(nil).Once()
			},
		},
		{
			name:   "foreign chat is ignored",
			update: callback("accept_"+id, 1),
			setup:  func(f *lifecycleFixture) {},
		},
		{
			name:   "empty update",
			update: domain.BotUpdate{UpdateID: 2},
			setup:  func(f *lifecycleFixture) {},
		},
		{
			name: "start replies with chat id",
			update: domain.BotUpdate{Message: &domain.BotMessage{
				MessageID: 5,
				Chat:      &domain.BotChat{ID: 777},
				Text:      "/start",
			}},
			setup: func(f *lifecycleFixture) {
				f.notifier.On("SendMessage", mock.Anything, int64(777), mock.MatchedBy(func(text string) bool {
					return strings.Contains(text, "777")
				})).Return(nil).Once()
			},
		},
		{
			name: "other text is ignored",
			update: domain.BotUpdate{Message: &domain.BotMessage{
				Chat: &domain.BotChat{ID: 777},
				Text: "hello",
			}},
			setup: func(f *lifecycleFixture) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLifecycleFixture()
			tt.setup(f)

			f.svc.HandleUpdate(context.Background(), tt.update)

			f.repo.AssertExpectations(t)
			f.pub.AssertExpectations(t)
			f.notifier.AssertExpectations(t)
			if len(f.notifier.ExpectedCalls) == 0 {
				f.notifier.AssertNotCalled(t, "AnswerCallback", mock.Anything, mock.Anything, mock.Anything)
			}
			if len(f.repo.ExpectedCalls) == 0 {
				f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestLifecycleService_AnyChatWithoutGuard(t *testing.T) {
	f := newLifecycleFixture()
	f.svc.operatorChat = 0
	id := uuid.NewString()
	f.repo.On("UpdateStatus", mock.Anything, id, domain.StatusPreparing).Return(true, nil).Once()
	f.pub.On("Publish", mock.Anything, domain.EventOrderStatusChanged, mock.Anything).Return(nil).Once()
	f.notifier.On("AnswerCallback", mock.Anything, "cb-1", "Заказ принят").Return(nil).Once()

	f.svc.HandleUpdate(context.Background(), callback("accept_"+id, 99))
	f.repo.AssertExpectations(t)
}
