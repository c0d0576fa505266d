// Package deleteaccount реализует HTTP-обработчик удаления учётной записи.
// Вместе с пользователем каскадно удаляются все его подписки, сессионная
// cookie сбрасывается.
package deleteaccount

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-manager/internal/http/response"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/cookie"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/sl"
)

// Service описывает интерфейс сервиса удаления учётной записи.
type Service interface {
	DeleteAccount(ctx context.Context, userUID string) error
}

// Handler управляет HTTP-запросами на удаление учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
	cookies *cookie.Issuer
}

// New создает новый Handler с переданными логгером, сервисом и издателем cookie.
func New(log *slog.Logger, service Service, cookies *cookie.Issuer) *Handler {
	return &Handler{log: log, service: service, cookies: cookies}
}

// ServeHTTP godoc
// @Summary Удалить учётную запись
// @Description Удаляет пользователя вместе со всеми его подписками и сбрасывает сессионную cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Учётная запись удалена"
// @Failure 401 {object} response.ErrorResponse "Сессия недействительна"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/delete-account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.deleteaccount"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.GetUserUID(r.Context())
	if userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userUID); err != nil {
		log.Error("failed to delete account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete account"))
		return
	}

	h.cookies.Clear(w)
	log.Info("account deleted", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "account deleted successfully",
	}))
}
