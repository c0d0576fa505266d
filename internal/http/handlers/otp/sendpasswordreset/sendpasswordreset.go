// Package sendpasswordreset реализует HTTP-обработчик запроса кода
// для смены пароля. Код отправляется на email пользователя только после
// подтверждения текущего пароля.
package sendpasswordreset

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

// Request — входные данные для запроса кода
type Request struct {
	CurrentPassword string `json:"current_password" validate:"required"`
}

// Service описывает интерфейс сервиса отправки кода смены пароля.
type Service interface {
	SendPasswordResetOTP(ctx context.Context, userUID, currentPassword string) error
}

// Handler управляет HTTP-запросами на отправку кода смены пароля.
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
// @Summary Запросить код для смены пароля
// @Description Проверяет текущий пароль и отправляет одноразовый код на email пользователя. Повторный запрос вытесняет предыдущий код.
// @Tags OTP
// @Accept  json
// @Produce  json
// @Param request body Request true "Текущий пароль"
// @Success 200 {object} response.Response "Код отправлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный текущий пароль"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/send-password-reset-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.otp.sendpasswordreset"

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

	if err := h.service.SendPasswordResetOTP(r.Context(), userUID, req.CurrentPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Error("invalid current password", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid credentials"))
			return
		}
		log.Error("failed to send otp", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to send otp"))
		return
	}

	log.Info("password reset otp sent", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "otp sent to your email",
	}))
}
