// Package otp реализует хранилище одноразовых кодов на основе Redis.
//
// Код живет под ключом otp:{type}:{userUID} с нативным TTL Redis:
// просроченные коды хранилище выбрасывает само, без опроса.
// Одна команда SET на ключ атомарно вытесняет предыдущий код той же
// пары (пользователь, тип), поэтому живым всегда остаётся не более
// одного кода.
package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/subscription-manager/internal/models"
)

// Store хранит одноразовые коды в Redis.
type Store struct {
	db  *redis.Client
	ttl time.Duration
}

// NewStore создает Store поверх существующего клиента Redis.
func NewStore(db *redis.Client, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

func key(otpType, userUID string) string {
	return fmt.Sprintf("otp:%s:%s", otpType, userUID)
}

// Save сохраняет код, заменяя предыдущий код той же пары (пользователь, тип).
func (s *Store) Save(ctx context.Context, rec models.OTP) error {
	const op = "otpstore.Save"
	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.db.Set(ctx, key(rec.Type, rec.UserUID), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Find возвращает живой код для пары (пользователь, тип) либо (nil, nil),
// если кода нет или он уже истёк.
func (s *Store) Find(ctx context.Context, userUID, otpType string) (*models.OTP, error) {
	const op = "otpstore.Find"
	val, err := s.db.Get(ctx, key(otpType, userUID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var rec models.OTP
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &rec, nil
}

// Delete удаляет код пары (пользователь, тип), например после успешной проверки.
func (s *Store) Delete(ctx context.Context, userUID, otpType string) error {
	const op = "otpstore.Delete"
	if err := s.db.Del(ctx, key(otpType, userUID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
