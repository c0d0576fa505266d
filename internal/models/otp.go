// Package models содержит модель одноразового кода подтверждения (OTP),
// привязанного к пользователю и типу операции над учётной записью.
package models

import "time"

// Типы операций, подтверждаемых одноразовым кодом.
const (
	OTPTypePasswordReset = "password-reset"
	OTPTypeEmailUpdate   = "email-update"
)

// OTP представляет одноразовый 6-значный код подтверждения.
// Для каждой пары (пользователь, тип) живым может быть не более одного
// кода; повторный запрос вытесняет предыдущий. Срок жизни кода
// обеспечивает само хранилище.
type OTP struct {
	UserUID   string    `json:"user_uid"`            // Владелец кода
	Email     string    `json:"email"`               // Адрес, на который код был отправлен
	Code      string    `json:"code"`                // 6-значный числовой код
	Type      string    `json:"type"`                // password-reset или email-update
	NewEmail  string    `json:"new_email,omitempty"` // Новый адрес, только для email-update
	CreatedAt time.Time `json:"created_at"`          // Момент создания кода
}
