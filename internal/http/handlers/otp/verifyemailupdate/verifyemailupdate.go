// Package verifyemailupdate реализует HTTP-обработчик подтверждения
// смены email одноразовым кодом. После смены адреса сессионная cookie
// сбрасывается: токен привязан к прежним данным учётной записи.
package verifyemailupdate

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
	"github.com/magabrotheeeer/subscription-manager/internal/lib/cookie"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/sl"
	services "github.com/magabrotheeeer/subscription-manager/internal/services/auth"
)

// Request — входные данные для подтверждения смены email
type Request struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// Service описывает интерфейс сервиса подтверждения смены email.
type Service interface {
	VerifyEmailUpdateOTP(ctx context.Context, userUID, code string) error
}

// Handler управляет HTTP-запросами на подтверждение смены email.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookies  *cookie.Issuer
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером, сервисом и издателем cookie.
func New(log *slog.Logger, service Service, cookies *cookie.Issuer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		cookies:  cookies,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить смену email
// @Description Проверяет одноразовый код и записывает отложенный новый адрес. Сессионная cookie сбрасывается, требуется повторный вход.
// @Tags OTP
// @Accept  json
// @Produce  json
// @Param request body Request true "Одноразовый код"
// @Success 200 {object} response.Response "Email обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный или истекший код"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/verify-email-update-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.otp.verifyemailupdate"

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

	if err := h.service.VerifyEmailUpdateOTP(r.Context(), userUID, req.OTP); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOTP):
			log.Error("invalid or expired code", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid or expired code"))
		case errors.Is(err, services.ErrEmailTaken):
			log.Error("email already registered", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
		default:
			log.Error("failed to update email", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update email"))
		}
		return
	}

	h.cookies.Clear(w)
	log.Info("email updated", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "email updated successfully",
	}))
}
