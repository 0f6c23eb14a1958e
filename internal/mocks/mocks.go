package mocks

import (
	"context"
	"encoding/json"
	"time"

	"cake-shop/internal/domain"
	"cake-shop/internal/infra"
	rabbit "cake-shop/internal/infra/rabbitmq"
	"cake-shop/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockProductRepository struct {
	mock.Mock
}

type MockProfileRepository struct {
	mock.Mock
}

type MockCredentialRepository struct {
	mock.Mock
}

type MockVerificationRepository struct {
	mock.Mock
}

type MockCakeRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockEmailSender struct {
	mock.Mock
}

type MockOperatorNotifier struct {
	mock.Mock
}

var (
	_ repository.OrderRepository        = (*MockOrderRepository)(nil)
	_ repository.ProductRepository      = (*MockProductRepository)(nil)
	_ repository.ProfileRepository      = (*MockProfileRepository)(nil)
	_ repository.CredentialRepository   = (*MockCredentialRepository)(nil)
	_ repository.VerificationRepository = (*MockVerificationRepository)(nil)
	_ repository.CakeRepository         = (*MockCakeRepository)(nil)
	_ rabbit.EventPublisher             = (*MockPublisher)(nil)
	_ infra.EmailSender                 = (*MockEmailSender)(nil)
	_ infra.OperatorNotifier            = (*MockOperatorNotifier)(nil)
)

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockEmailSender) SendVerificationCode(ctx context.Context, email, code string) (json.RawMessage, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockOperatorNotifier) NotifyNewOrder(ctx context.Context, msg infra.NewOrderMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockOperatorNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *MockOperatorNotifier) AnswerCallback(ctx context.Context, callbackID, text string) error {
	args := m.Called(ctx, callbackID, text)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindCurrentByUser(ctx context.Context, userID string) (*domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Archive(ctx context.Context, id string, outcome domain.ArchivedOutcome, completedAt time.Time) (*domain.OrderHistoryRecord, error) {
	args := m.Called(ctx, id, outcome, completedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderHistoryRecord), args.Error(1)
}

func (m *MockOrderRepository) ListHistoryByUser(ctx context.Context, userID string) ([]domain.OrderHistoryRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderHistoryRecord), args.Error(1)
}

func (m *MockProductRepository) Query(ctx context.Context, q repository.ProductQuery) ([]domain.Product, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProfileRepository) profile(args mock.Arguments) (*domain.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, id))
}

func (m *MockProfileRepository) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, username))
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, email))
}

func (m *MockProfileRepository) FindByPhone(ctx context.Context, phone string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, phone))
}

func (m *MockProfileRepository) UpdateAvatar(ctx context.Context, id string, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

func (m *MockCredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) CreateAccount(ctx context.Context, cred *domain.Credential, profile *domain.Profile) error {
	args := m.Called(ctx, cred, profile)
	return args.Error(0)
}

func (m *MockVerificationRepository) Replace(ctx context.Context, v *domain.VerificationCode) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVerificationRepository) FindByEmail(ctx context.Context, email string) (*domain.VerificationCode, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationCode), args.Error(1)
}

func (m *MockVerificationRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockCakeRepository) Save(ctx context.Context, cake *domain.SavedCake) error {
	args := m.Called(ctx, cake)
	return args.Error(0)
}

func (m *MockCakeRepository) FindByID(ctx context.Context, id string) (*domain.SavedCake, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavedCake), args.Error(1)
}

func (m *MockCakeRepository) ListByUser(ctx context.Context, userID string) ([]domain.SavedCake, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SavedCake), args.Error(1)
}
