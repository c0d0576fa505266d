package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-manager/internal/models"
	"github.com/magabrotheeeer/subscription-manager/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}
func (m *RepoMock) ReadSubscription(ctx context.Context, userUID, id string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveSubscription(ctx context.Context, userUID, id string) (int, error) {
	args := m.Called(ctx, userUID, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

const testUserUID = "550e8400-e29b-41d4-a716-446655440000"

func newService(repo *RepoMock, cache *CacheMock) *SubscriptionService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSubscriptionService(repo, cache, log)
}

func TestCreate_Defaults(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := newService(repo, cache)

	var created models.Subscription
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		created = sub
		return sub.UserUID == testUserUID
	})).Return(nil)
	cache.On("Invalidate", mock.Anything, "subscriptions:"+testUserUID).Return(nil)
	repo.On("ReadSubscription", mock.Anything, testUserUID, mock.Anything).
		Return(&models.Subscription{Name: "Netflix"}, nil)

	_, err := svc.Create(context.Background(), testUserUID, models.DummySubscription{
		Name:     "Netflix",
		Category: "OTT",
		Price:    9.99,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.CycleMonthly, created.BillingCycle)
	assert.True(t, created.IsActive)
	assert.WithinDuration(t, time.Now().UTC(), created.StartDate, time.Minute)
	cache.AssertExpectations(t)
}

func TestCreate_ExplicitValuesKept(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := newService(repo, cache)

	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	inactive := false

	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
		return sub.BillingCycle == models.CycleYearly &&
			sub.StartDate.Equal(start) &&
			!sub.IsActive
	})).Return(nil)
	cache.On("Invalidate", mock.Anything, mock.Anything).Return(nil)
	repo.On("ReadSubscription", mock.Anything, testUserUID, mock.Anything).
		Return(&models.Subscription{}, nil)

	_, err := svc.Create(context.Background(), testUserUID, models.DummySubscription{
		Name:         "Antivirus",
		Category:     "Software",
		Price:        29,
		BillingCycle: models.CycleYearly,
		StartDate:    &start,
		IsActive:     &inactive,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestList(t *testing.T) {
	t.Run("промах кеша: список читается и кешируется", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache)

		subs := []*models.Subscription{{ID: "id-1", Name: "Netflix"}}
		cache.On("Get", mock.Anything, "subscriptions:"+testUserUID, mock.Anything).Return(false, nil)
		repo.On("ListSubscriptions", mock.Anything, testUserUID).Return(subs, nil)
		cache.On("Set", mock.Anything, "subscriptions:"+testUserUID, subs, time.Hour).Return(nil)

		got, err := svc.List(context.Background(), testUserUID)
		require.NoError(t, err)
		assert.Equal(t, subs, got)
		cache.AssertExpectations(t)
	})

	t.Run("попадание в кеш: хранилище не трогаем", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache)

		cache.On("Get", mock.Anything, "subscriptions:"+testUserUID, mock.Anything).Return(true, nil)

		_, err := svc.List(context.Background(), testUserUID)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ListSubscriptions", mock.Anything, mock.Anything)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("чужая или несуществующая запись", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache)

		repo.On("UpdateSubscription", mock.Anything, mock.Anything).Return(0, nil)

		_, err := svc.Update(context.Background(), testUserUID, "foreign-id", models.DummySubscription{
			Name:     "Netflix",
			Category: "OTT",
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("успех: запись обновлена, кеш сброшен", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache)

		updated := &models.Subscription{ID: "id-1", Name: "Netflix Premium"}
		repo.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.ID == "id-1" && sub.UserUID == testUserUID
		})).Return(1, nil)
		cache.On("Invalidate", mock.Anything, "subscriptions:"+testUserUID).Return(nil)
		repo.On("ReadSubscription", mock.Anything, testUserUID, "id-1").Return(updated, nil)

		got, err := svc.Update(context.Background(), testUserUID, "id-1", models.DummySubscription{
			Name:     "Netflix Premium",
			Category: "OTT",
		})
		require.NoError(t, err)
		assert.Equal(t, updated, got)
		cache.AssertExpectations(t)
	})
}

func TestRemove(t *testing.T) {
	t.Run("чужая или несуществующая запись", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache)

		repo.On("RemoveSubscription", mock.Anything, testUserUID, "foreign-id").Return(0, nil)

		err := svc.Remove(context.Background(), testUserUID, "foreign-id")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("успех", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache)

		repo.On("RemoveSubscription", mock.Anything, testUserUID, "id-1").Return(1, nil)
		cache.On("Invalidate", mock.Anything, "subscriptions:"+testUserUID).Return(nil)

		require.NoError(t, svc.Remove(context.Background(), testUserUID, "id-1"))
		cache.AssertExpectations(t)
	})
}
