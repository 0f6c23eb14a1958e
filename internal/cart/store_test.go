package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"cake-shop/internal/domain"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_EmptySession(t *testing.T) {
	s := NewMemoryStore()
	c, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

// Every mutation is persisted and reading it back gives the in-memory cart.
func TestMemoryStore_RoundTripAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	rng := rand.New(rand.NewSource(7))
	products := []domain.CartLine{
		{ID: "p1", Name: "Чизкейк", Description: "Нежный", Price: 1200, ImageURL: "a.jpg", Category: "Чизкейки", Quantity: 1},
		{ID: "p2", Name: "Брауни", Price: 450, Category: "Брауни", Quantity: 1},
		{ID: "p3", Name: "Бенто", Price: 2000, Category: "Бенто торты", Quantity: 1},
	}

	var live domain.Cart
	for i := 0; i < 200; i++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(3) {
		case 0:
			live.Add(p)
		case 1:
			live.Increment(p.ID)
		case 2:
			live.Decrement(p.ID)
		}
		require.NoError(t, s.Set(ctx, "sess", live))

		stored, err := s.Get(ctx, "sess")
		require.NoError(t, err)
		assert.ElementsMatch(t, live.Lines, stored.Lines, "step %d", i)
		assert.Equal(t, live.Total(), stored.Total(), "step %d", i)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "sess", domain.Cart{Lines: []domain.CartLine{{ID: "p1", Price: 1, Quantity: 1}}}))
	require.NoError(t, s.Clear(ctx, "sess"))

	_, ok := s.Raw("sess")
	assert.False(t, ok)
	c, err := s.Get(ctx, "sess")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

type MockRedisCmd struct {
	mock.Mock
}

func (m *MockRedisCmd) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedisCmd) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedisCmd) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	want := domain.Cart{Lines: []domain.CartLine{{ID: "p1", Name: "Брауни", Price: 450, Quantity: 2}}}
	encoded, err := encode(want)
	require.NoError(t, err)

	t.Run("missing key is an empty cart", func(t *testing.T) {
		rdb := new(MockRedisCmd)
		rdb.On("Get", ctx, "cart:s1").Return(redis.NewStringResult("", redis.Nil))

		c, err := NewRedisStore(rdb, time.Hour).Get(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
		rdb.AssertExpectations(t)
	})

	t.Run("set then get", func(t *testing.T) {
		rdb := new(MockRedisCmd)
		rdb.On("Set", ctx, "cart:s1", encoded, time.Hour).Return(redis.NewStatusResult("OK", nil))
		rdb.On("Get", ctx, "cart:s1").Return(redis.NewStringResult(string(encoded), nil))

		s := NewRedisStore(rdb, time.Hour)
		require.NoError(t, s.Set(ctx, "s1", want))
		got, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		rdb.AssertExpectations(t)
	})

	t.Run("connection failure is retryable", func(t *testing.T) {
		rdb := new(MockRedisCmd)
		rdb.On("Get", ctx, "cart:s1").Return(redis.NewStringResult("", errors.New("dial tcp: refused")))

		_, err := NewRedisStore(rdb, time.Hour).Get(ctx, "s1")
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})

	t.Run("clear deletes key", func(t *testing.T) {
		rdb := new(MockRedisCmd)
		rdb.On("Del", ctx, []string{"cart:s1"}).Return(redis.NewIntResult(1, nil))

		require.NoError(t, NewRedisStore(rdb, time.Hour).Clear(ctx, "s1"))
		rdb.AssertExpectations(t)
	})
}
