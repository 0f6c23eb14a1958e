package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cake-shop/internal/domain"
	"cake-shop/internal/infra"
	rabbit "cake-shop/internal/infra/rabbitmq"
	"cake-shop/internal/repository"

	"go.uber.org/zap"
)

// TransitionResult describes what a command did to the active table.
type TransitionResult struct {
	Command domain.OperatorCommand
	Applied bool
	Status  domain.OrderStatus
	Archive *domain.OrderHistoryRecord
}

// LifecycleService moves orders through their states on operator commands.
// accept sets preparing directly; cancel and delivered archive the order.
type LifecycleService struct {
	repo         repository.OrderRepository
	publisher    rabbit.EventPublisher
	notifier     infra.OperatorNotifier
	operatorChat int64
	now          func() time.Time
}

func NewLifecycleService(r repository.OrderRepository, pub rabbit.EventPublisher, n infra.OperatorNotifier, operatorChat int64) *LifecycleService {
	return &LifecycleService{
		repo:         r,
		publisher:    pub,
		notifier:     n,
		operatorChat: operatorChat,
		now:          time.Now,
	}
}

// Apply runs one command. A missing order is not an error: the command is
// reported as not applied, which makes redelivery harmless.
func (s *LifecycleService) Apply(ctx context.Context, cmd domain.OperatorCommand) (*TransitionResult, error) {
	res := &TransitionResult{Command: cmd}

	switch cmd.Action {
	case domain.ActionAccept:
		found, err := s.repo.UpdateStatus(ctx, cmd.OrderID, domain.StatusPreparing)
		if err != nil {
			return nil, err
		}
		if found {
			res.Applied = true
			res.Status = domain.StatusPreparing
			s.publish(ctx, domain.EventOrderStatusChanged, domain.OrderStatusChangedEvent{
				OrderID: cmd.OrderID,
				Status:  domain.StatusPreparing,
				At:      s.now(),
			})
		}

	case domain.ActionCancel, domain.ActionDelivered:
		outcome := domain.OutcomeCompleted
		if cmd.Action == domain.ActionCancel {
			outcome = domain.OutcomeCancelled
		}
		rec, err := s.repo.Archive(ctx, cmd.OrderID, outcome, s.now())
		if err != nil {
			return nil, err
		}
		if rec != nil {
			res.Applied = true
			res.Archive = rec
			s.publish(ctx, domain.EventOrderArchived, domain.OrderArchivedEvent{
				OrderID:     rec.OrderID,
				Outcome:     rec.Outcome,
				CompletedAt: rec.CompletedAt,
			})
		}

	default:
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrMalformedCallback, cmd.Action)
	}

	if res.Applied {
		zap.L().Info("order transition applied", zap.String("action", string(cmd.Action)), zap.String("order_id", cmd.OrderID))
	} else {
		zap.L().Info("order not active, command ignored", zap.String("action", string(cmd.Action)), zap.String("order_id", cmd.OrderID))
	}
	return res, nil
}

func (s *LifecycleService) publish(ctx context.Context, pattern string, evt any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, pattern, evt); err != nil {
		zap.L().Warn("publish lifecycle event", zap.String("pattern", pattern), zap.Error(err))
	}
}

// HandleUpdate processes one webhook delivery. Failures are logged and
// answered in the chat; the caller always acknowledges the delivery.
func (s *LifecycleService) HandleUpdate(ctx context.Context, u domain.BotUpdate) {
	switch {
	case u.CallbackQuery != nil:
		s.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil:
		s.handleMessage(ctx, u.Message)
	}
}

func (s *LifecycleService) handleCallback(ctx context.Context, q *domain.CallbackQuery) {
	chatID := q.ChatID()
	if q.Data == "" || chatID == 0 {
		return
	}
	if s.operatorChat != 0 && chatID != s.operatorChat {
		zap.L().Warn("callback from foreign chat ignored", zap.Int64("chat_id", chatID))
		return
	}

	cmd, err := domain.ParseOperatorCommand(q.Data)
	if err != nil {
		zap.L().Info("callback ignored", zap.String("data", q.Data), zap.Error(err))
		s.answer(ctx, q.ID, "Неизвестная команда")
		return
	}

	res, err := s.Apply(ctx, cmd)
	if err != nil {
		if errors.Is(err, domain.ErrArchiveInconsistent) {
			zap.L().Error("order archive inconsistent, manual reconciliation required",
				zap.String("order_id", cmd.OrderID), zap.String("action", string(cmd.Action)), zap.Error(err))
		} else {
			zap.L().Error("apply operator command", zap.String("order_id", cmd.OrderID),
				zap.String("action", string(cmd.Action)), zap.Error(err))
		}
		s.answer(ctx, q.ID, "Ошибка, попробуйте ещё раз")
		return
	}
	s.answer(ctx, q.ID, answerText(res))
}

func answerText(res *TransitionResult) string {
	if !res.Applied {
		return "Заказ не найден среди активных"
	}
	switch res.Command.Action {
	case domain.ActionAccept:
		return "Заказ принят"
	case domain.ActionCancel:
		return "Заказ отменён"
	default:
		return "Заказ доставлен"
	}
}

func (s *LifecycleService) answer(ctx context.Context, callbackID, text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.AnswerCallback(ctx, callbackID, text); err != nil {
		zap.L().Warn("answer callback", zap.Error(err))
	}
}

func (s *LifecycleService) handleMessage(ctx context.Context, m *domain.BotMessage) {
	if m.Chat == nil || m.Text != "/start" || s.notifier == nil {
		return
	}
	text := fmt.Sprintf("Бот магазина тортов. ID этого чата: %d", m.Chat.ID)
	if err := s.notifier.SendMessage(ctx, m.Chat.ID, text); err != nil {
		zap.L().Warn("reply to /start", zap.Int64("chat_id", m.Chat.ID), zap.Error(err))
	}
}
