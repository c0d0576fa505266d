// Package app предоставляет маршруты приложения.
package app

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/auth/check"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/auth/deleteaccount"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/otp/sendemailupdate"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/otp/sendpasswordreset"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/otp/verifyemailupdate"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/otp/verifypasswordreset"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-manager/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subscription-manager/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/cookie"
	authservice "github.com/magabrotheeeer/subscription-manager/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-manager/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, subscriptionService *subservice.SubscriptionService, cookies *cookie.Issuer) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/auth", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService, cookies).ServeHTTP)
		r.Post("/login", login.New(logger, authService, cookies).ServeHTTP)
		r.Post("/logout", logout.New(logger, cookies).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/check", check.New(logger, authService).ServeHTTP)
			r.Post("/send-password-reset-otp", sendpasswordreset.New(logger, authService).ServeHTTP)
			r.Post("/verify-password-reset-otp", verifypasswordreset.New(logger, authService).ServeHTTP)
			r.Post("/send-email-update-otp", sendemailupdate.New(logger, authService).ServeHTTP)
			r.Post("/verify-email-update-otp", verifyemailupdate.New(logger, authService, cookies).ServeHTTP)
			r.Delete("/delete-account", deleteaccount.New(logger, authService, cookies).ServeHTTP)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
		r.Get("/subscriptions", list.New(logger, subscriptionService).ServeHTTP)
		r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
