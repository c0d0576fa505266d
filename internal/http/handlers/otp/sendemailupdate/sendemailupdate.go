// Package sendemailupdate реализует HTTP-обработчик запроса кода
// для смены email. Код отправляется на ТЕКУЩИЙ адрес пользователя,
// новый адрес хранится вместе с кодом до подтверждения.
package sendemailupdate

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

// Request — входные данные для запроса смены email
type Request struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}

// Service описывает интерфейс сервиса отправки кода смены email.
type Service interface {
	SendEmailUpdateOTP(ctx context.Context, userUID, newEmail string) error
}

// Handler управляет HTTP-запросами на отправку кода смены email.
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
// @Summary Запросить код для смены email
// @Description Отправляет одноразовый код на текущий адрес пользователя. Новый адрес сохраняется до подтверждения. Повторный запрос вытесняет предыдущий код.
// @Tags OTP
// @Accept  json
// @Produce  json
// @Param request body Request true "Новый email"
// @Success 200 {object} response.Response "Код отправлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/send-email-update-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.otp.sendemailupdate"

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

	if err := h.service.SendEmailUpdateOTP(r.Context(), userUID, req.NewEmail); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			log.Error("email already registered", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		log.Error("failed to send otp", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to send otp"))
		return
	}

	log.Info("email update otp sent", slog.String("uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "otp sent to your email",
	}))
}
