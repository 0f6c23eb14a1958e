package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cake-shop/internal/cart"
	"cake-shop/internal/domain"
	"cake-shop/internal/infra"
	"cake-shop/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const session = "session-1"

func validContact() ContactInfo {
	return ContactInfo{
		CustomerName:  "Анна",
		CustomerPhone: "+79991234567",
		DeliveryDate:  "2026-10-25",
		Comment:       "позвонить заранее",
	}
}

type orderFixture struct {
	svc      *OrderService
	repo     *mocks.MockOrderRepository
	products *mocks.MockProductRepository
	pub      *mocks.MockPublisher
	notifier *mocks.MockOperatorNotifier
	carts    *CartService
	store    *cart.MemoryStore
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		repo:     new(mocks.MockOrderRepository),
		products: new(mocks.MockProductRepository),
		pub:      new(mocks.MockPublisher),
		notifier: new(mocks.MockOperatorNotifier),
		store:    cart.NewMemoryStore(),
	}
	f.carts = NewCartService(f.store, f.products)
	f.svc = NewOrderService(f.repo, f.carts, f.pub, f.notifier)
	f.pub.On("Publish", mock.Anything, domain.EventOrderCreated, mock.Anything).Return(nil).Maybe()
	f.notifier.On("NotifyNewOrder", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func (f *orderFixture) fillCart(t *testing.T, lines ...domain.CartLine) {
	t.Helper()
	for _, l := range lines {
		for i := 0; i < l.Quantity; i++ {
			one := l
			one.Quantity = 1
			_, err := f.carts.AddLine(context.Background(), session, one)
			require.NoError(t, err)
		}
	}
}

func TestOrderService_Submit(t *testing.T) {
	f := newOrderFixture()
	f.fillCart(t,
		domain.CartLine{ID: "p1", Name: "Napoleon", Price: 1200, Quantity: 2},
		domain.CartLine{ID: "p2", Name: "Brownie", Price: 450, Quantity: 1},
	)

	var saved *domain.Order
	f.repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Order) }).
		Return(nil).Once()

	order, err := f.svc.Submit(context.Background(), "user-1", session, validContact())
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Same(t, saved, order)

	assert.Equal(t, int64(2850), order.TotalPrice)
	assert.Equal(t, order.ItemsTotal(), order.TotalPrice)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, domain.TrackNumber(order.ID), order.TrackNumber)
	assert.Len(t, order.TrackNumber, domain.TrackNumberLength)
	assert.Len(t, order.Items, 2)

	c, err := f.carts.Get(context.Background(), session)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty(), "cart must be cleared after a stored order")
	f.repo.AssertExpectations(t)
}

func TestOrderService_SubmitAnnouncesOrder(t *testing.T) {
	f := newOrderFixture()
	f.notifier = new(mocks.MockOperatorNotifier)
	f.svc = NewOrderService(f.repo, f.carts, f.pub, f.notifier)
	f.fillCart(t, domain.CartLine{ID: "p1", Name: "Napoleon", Price: 1200, Quantity: 1})
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	sent := make(chan infra.NewOrderMessage, 1)
	f.notifier.On("NotifyNewOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent <- args.Get(1).(infra.NewOrderMessage) }).
		Return(errors.New("bot down")).Once()

	order, err := f.svc.Submit(context.Background(), "user-1", session, validContact())
	require.NoError(t, err, "notification failures do not fail the order")

	select {
	case msg := <-sent:
		assert.Equal(t, order.ID, msg.OrderID)
		assert.Equal(t, order.TrackNumber, msg.TrackNumber)
		assert.Equal(t, int64(1200), msg.TotalPrice)
		require.Len(t, msg.Lines, 1)
		assert.Contains(t, msg.Lines[0], "Napoleon")
	case <-time.After(2 * time.Second):
		t.Fatal("operator was not notified")
	}
}

func TestOrderService_SubmitUsesCartSnapshotPrice(t *testing.T) {
	f := newOrderFixture()
	f.products.On("FindByID", mock.Anything, "p1").
		Return(&domain.Product{ID: "p1", Name: "Napoleon", Price: 1200}, nil).Once()
	_, err := f.carts.Add(context.Background(), session, "p1")
	require.NoError(t, err)

	// Later catalog price changes are not consulted at checkout.
	f.products.On("FindByID", mock.Anything, "p1").
		Return(&domain.Product{ID: "p1", Name: "Napoleon", Price: 9999}, nil).Maybe()
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := f.svc.Submit(context.Background(), "user-1", session, validContact())
	require.NoError(t, err)
	assert.Equal(t, int64(1200), order.TotalPrice)
	assert.Equal(t, int64(1200), order.Items[0].Price)
	f.products.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestOrderService_SubmitRejected(t *testing.T) {
	longComment := strings.Repeat("я", domain.MaxCommentLength+1)

	tests := []struct {
		name      string
		userID    string
		fill      bool
		info      func(ContactInfo) ContactInfo
		wantErr   error
		wantField string
	}{
		{
			name:    "unauthenticated",
			userID:  "",
			fill:    true,
			info:    func(c ContactInfo) ContactInfo { return c },
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:    "empty cart",
			userID:  "user-1",
			info:    func(c ContactInfo) ContactInfo { return c },
			wantErr: domain.ErrEmptyCart,
		},
		{
			name:      "missing name",
			userID:    "user-1",
			fill:      true,
			info:      func(c ContactInfo) ContactInfo { c.CustomerName = "  "; return c },
			wantErr:   domain.ErrValidation,
			wantField: "customerName",
		},
		{
			name:      "bad phone",
			userID:    "user-1",
			fill:      true,
			info:      func(c ContactInfo) ContactInfo { c.CustomerPhone = "call me"; return c },
			wantErr:   domain.ErrValidation,
			wantField: "customerPhone",
		},
		{
			name:      "impossible date",
			userID:    "user-1",
			fill:      true,
			info:      func(c ContactInfo) ContactInfo { c.DeliveryDate = "2026-02-30"; return c },
			wantErr:   domain.ErrValidation,
			wantField: "deliveryDate",
		},
		{
			name:      "comment too long",
			userID:    "user-1",
			fill:      true,
			info:      func(c ContactInfo) ContactInfo { c.Comment = longComment; return c },
			wantErr:   domain.ErrValidation,
			wantField: "comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture()
			if tt.fill {
				f.fillCart(t, domain.CartLine{ID: "p1", Name: "Napoleon", Price: 1200, Quantity: 1})
			}

			order, err := f.svc.Submit(context.Background(), tt.userID, session, tt.info(validContact()))
			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantField != "" {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.wantField)
			}
			f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

			if tt.fill {
				c, err := f.carts.Get(context.Background(), session)
				require.NoError(t, err)
				assert.Len(t, c.Lines, 1, "cart is untouched on rejection")
			}
		})
	}
}

func TestOrderService_SubmitCommentAtLimitAccepted(t *testing.T) {
	f := newOrderFixture()
	f.fillCart(t, domain.CartLine{ID: "p1", Name: "Napoleon", Price: 1200, Quantity: 1})
	f.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	info := validContact()
	info.Comment = strings.Repeat("я", domain.MaxCommentLength)
	_, err := f.svc.Submit(context.Background(), "user-1", session, info)
	assert.NoError(t, err)
}

func TestOrderService_SubmitStoreFailureKeepsCart(t *testing.T) {
	f := newOrderFixture()
	f.fillCart(t, domain.CartLine{ID: "p1", Name: "Napoleon", Price: 1200, Quantity: 3})
	f.repo.On("Save", mock.Anything, mock.Anything).Return(domain.ErrUnavailable).Once()

	order, err := f.svc.Submit(context.Background(), "user-1", session, validContact())
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	c, err := f.carts.Get(context.Background(), session)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	f.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	f := newOrderFixture()
	o := &domain.Order{ID: "o-1", Status: domain.StatusPending}
	f.repo.On("FindByID", mock.Anything, "o-1").Return(o, nil)
	f.repo.On("FindByID", mock.Anything, "o-2").Return(nil, nil)

	got, err := f.svc.GetOrderByID(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Same(t, o, got)

	_, err = f.svc.GetOrderByID(context.Background(), "o-2")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
