// Package cookie отвечает за установку и сброс сессионной cookie auth_token.
//
// Cookie всегда HttpOnly и SameSite=None: фронтенд живёт на другом домене
// и ходит к API с credentials. Сброс использует те же атрибуты, иначе
// браузер не удалит cookie.
package cookie

import (
	"net/http"
	"time"
)

// Name — имя сессионной cookie.
const Name = "auth_token"

// Issuer выставляет и сбрасывает сессионную cookie с фиксированными атрибутами.
type Issuer struct {
	secure bool          // Secure выключается только в локальной разработке
	maxAge time.Duration // Время жизни cookie, совпадает с TTL токена
}

// NewIssuer создает Issuer с заданными флагом Secure и временем жизни.
func NewIssuer(secure bool, maxAge time.Duration) *Issuer {
	return &Issuer{secure: secure, maxAge: maxAge}
}

// Set выставляет сессионную cookie с токеном.
func (i *Issuer) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(i.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// Clear сбрасывает сессионную cookie. Атрибуты совпадают с Set,
// MaxAge отрицательный — браузер удаляет cookie немедленно.
func (i *Issuer) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   i.secure,
		SameSite: http.SameSiteNoneMode,
	})
}
