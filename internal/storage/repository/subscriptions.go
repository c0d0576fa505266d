package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-manager/internal/models"
)

// CreateSubscription вставляет новую запись подписки.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_uid, name, category, price,
			      billing_cycle, start_date, next_billing_date, notes, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.UserUID, sub.Name, sub.Category, sub.Price,
		sub.BillingCycle, sub.StartDate, sub.NextBillingDate, sub.Notes, sub.IsActive); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadSubscription возвращает подписку по ID в пределах записей владельца.
// Чужая или несуществующая запись неразличимы: обе дают ErrNotFound.
func (s *Storage) ReadSubscription(ctx context.Context, userUID, id string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, category, price, billing_cycle,
			      start_date, next_billing_date, notes, is_active, created_at, updated_at
			  FROM subscriptions
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)

	var result models.Subscription
	var nextBillingDate sql.NullTime
	var notes sql.NullString
	if err := row.Scan(&result.ID, &result.UserUID, &result.Name, &result.Category,
		&result.Price, &result.BillingCycle, &result.StartDate, &nextBillingDate,
		&notes, &result.IsActive, &result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if nextBillingDate.Valid {
		result.NextBillingDate = &nextBillingDate.Time
	}
	if notes.Valid {
		result.Notes = notes.String
	}
	return &result, nil
}

// UpdateSubscription обновляет данные подписки в пределах записей владельца
// и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET name = $1, category = $2, price = $3, billing_cycle = $4,
			      start_date = $5, next_billing_date = $6, notes = $7, is_active = $8,
			      updated_at = now()
			  WHERE id = $9 AND user_uid = $10`
	result, err := s.DB.ExecContext(ctx, query,
		sub.Name, sub.Category, sub.Price, sub.BillingCycle,
		sub.StartDate, sub.NextBillingDate, sub.Notes, sub.IsActive,
		sub.ID, sub.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку в пределах записей владельца
// и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, userUID, id string) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptions возвращает список всех подписок пользователя.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, category, price, billing_cycle,
			      start_date, next_billing_date, notes, is_active, created_at, updated_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		var nextBillingDate sql.NullTime
		var notes sql.NullString
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Name, &item.Category,
			&item.Price, &item.BillingCycle, &item.StartDate, &nextBillingDate,
			&notes, &item.IsActive, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if nextBillingDate.Valid {
			item.NextBillingDate = &nextBillingDate.Time
		}
		if notes.Valid {
			item.Notes = notes.String
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
