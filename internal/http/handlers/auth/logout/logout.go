// Package logout реализует HTTP-обработчик выхода из учётной записи.
// Сессия хранится только в cookie, поэтому выход — это её сброс.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-manager/internal/http/response"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/cookie"
)

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log     *slog.Logger
	cookies *cookie.Issuer
}

// New создает новый Handler с переданными логгером и издателем cookie.
func New(log *slog.Logger, cookies *cookie.Issuer) *Handler {
	return &Handler{log: log, cookies: cookies}
}

// ServeHTTP godoc
// @Summary Выйти из учётной записи
// @Description Сбрасывает сессионную cookie. Доступен без авторизации.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.cookies.Clear(w)
	log.Info("session cookie cleared")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
