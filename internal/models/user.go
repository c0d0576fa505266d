// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Name         string    // Отображаемое имя (опционально)
	Email        string    // Электронная почта, хранится в нижнем регистре, уникальна
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	CreatedAt    time.Time // Дата создания учётной записи
	UpdatedAt    time.Time // Дата последнего изменения
}

// PublicUser — представление пользователя, безопасное для выдачи клиенту.
// Хэш пароля наружу не выходит никогда.
type PublicUser struct {
	UID   string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public возвращает клиентское представление пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		UID:   u.UID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
