// Package verifypasswordreset реализует HTTP-обработчик подтверждения
// смены пароля одноразовым кодом. Использованный код удаляется сразу.
package verifypasswordreset

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-manager/internal/http/response"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/sl"
	services "github.com/magabrotheeeer/subscription-manager/internal/services/auth"
)

// Request — входные данные для подтверждения смены пароля
type Request struct {
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// Service описывает интерфейс сервиса подтверждения смены пароля.
type Service interface {
	VerifyPasswordResetOTP(ctx context.Context, userUID, code, newPassword string) error
}

// Handler управляет HTTP-запросами на подтверждение смены пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить смену пароля
// @Description Проверяет одноразовый код и устанавливает новый пароль. Новый пароль не может совпадать с текущим.
// @Tags OTP
// @Accept  json
// @Produce  json
// @Param request body Request true "Код и новый пароль"
// @Success 200 {object} response.Response "Пароль обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный или истекший код"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или пароль не изменился"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/verify-password-reset-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.otp.verifypasswordreset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID := middlewarectx.GetUserUID(r.Context())
	if userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	if err := h.service.VerifyPasswordResetOTP(r.Context(), userUID, req.OTP, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOTP):
			log.Error("invalid or expired code", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid or expired code"))
		case errors.Is(err, services.ErrSamePassword):
			log.Error("new password equals current", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("new password must differ from the current one"))
		default:
			log.Error("failed to reset password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reset password"))
		}
		return
	}

	log.Info("password updated", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "password updated successfully",
	}))
}
