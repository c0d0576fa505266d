// Package services содержит бизнес-логику работы с подписками пользователя:
// CRUD-операции с проверкой владельца и кеширование списков в Redis.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-manager/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-manager/internal/models"
	"github.com/magabrotheeeer/subscription-manager/internal/storage/repository"
)

// Время жизни кеша списка подписок.
const listCacheTTL = time.Hour

// SubscriptionRepository описывает операции хранилища, необходимые сервису.
// Все операции чтения и изменения привязаны к владельцу записи.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	ReadSubscription(ctx context.Context, userUID, id string) (*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	RemoveSubscription(ctx context.Context, userUID, id string) (int, error)
	ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
}

// Cacher описывает кеш для списков подписок.
type Cacher interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cacher
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cacher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, cache: cache, log: log}
}

func listCacheKey(userUID string) string {
	return fmt.Sprintf("subscriptions:%s", userUID)
}

// Create создает новую подписку для пользователя. Незаполненные поля
// получают значения по умолчанию: периодичность Monthly, дата начала —
// текущий момент, подписка активна.
func (s *SubscriptionService) Create(ctx context.Context, userUID string, dummy models.DummySubscription) (*models.Subscription, error) {
	const op = "services.subscription.Create"

	sub := buildSubscription(userUID, dummy)
	sub.ID = uuid.NewString()

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.dropListCache(ctx, userUID)

	created, err := s.repo.ReadSubscription(ctx, userUID, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// List возвращает все подписки пользователя. Сначала проверяется кеш,
// при промахе список читается из хранилища и кешируется.
func (s *SubscriptionService) List(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "services.subscription.List"

	key := listCacheKey(userUID)
	var cached []*models.Subscription
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read list from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	subs, err := s.repo.ListSubscriptions(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, subs, listCacheTTL); err != nil {
		s.log.Warn("failed to cache list", sl.Err(err))
	}
	return subs, nil
}

// Update полностью заменяет подписку пользователя. Если записи с таким id
// у пользователя нет — возвращает repository.ErrNotFound, не раскрывая,
// существует ли запись у другого владельца.
func (s *SubscriptionService) Update(ctx context.Context, userUID, id string, dummy models.DummySubscription) (*models.Subscription, error) {
	const op = "services.subscription.Update"

	sub := buildSubscription(userUID, dummy)
	sub.ID = id

	affected, err := s.repo.UpdateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, repository.ErrNotFound
	}
	s.dropListCache(ctx, userUID)

	updated, err := s.repo.ReadSubscription(ctx, userUID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Remove удаляет подписку пользователя. Семантика владельца та же,
// что и у Update: чужая или несуществующая запись — repository.ErrNotFound.
func (s *SubscriptionService) Remove(ctx context.Context, userUID, id string) error {
	const op = "services.subscription.Remove"

	affected, err := s.repo.RemoveSubscription(ctx, userUID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	s.dropListCache(ctx, userUID)
	return nil
}

func (s *SubscriptionService) dropListCache(ctx context.Context, userUID string) {
	if err := s.cache.Invalidate(ctx, listCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate list cache", sl.Err(err))
	}
}

func buildSubscription(userUID string, dummy models.DummySubscription) models.Subscription {
	sub := models.Subscription{
		UserUID:         userUID,
		Name:            dummy.Name,
		Category:        dummy.Category,
		Price:           dummy.Price,
		BillingCycle:    dummy.BillingCycle,
		NextBillingDate: dummy.NextBillingDate,
		Notes:           dummy.Notes,
		StartDate:       time.Now().UTC(),
		IsActive:        true,
	}
	if sub.BillingCycle == "" {
		sub.BillingCycle = models.CycleMonthly
	}
	if dummy.StartDate != nil {
		sub.StartDate = *dummy.StartDate
	}
	if dummy.IsActive != nil {
		sub.IsActive = *dummy.IsActive
	}
	return sub
}
