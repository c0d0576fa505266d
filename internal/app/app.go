// Package app собирает приложение subscription-manager: хранилище,
// миграции, Redis, сервисы и HTTP-сервер с graceful shutdown.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subscription-manager/internal/cache"
	"github.com/magabrotheeeer/subscription-manager/internal/config"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/cookie"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-manager/internal/migrations"
	authservice "github.com/magabrotheeeer/subscription-manager/internal/services/auth"
	senderservice "github.com/magabrotheeeer/subscription-manager/internal/services/sender"
	subservice "github.com/magabrotheeeer/subscription-manager/internal/services/subscription"
	otpstore "github.com/magabrotheeeer/subscription-manager/internal/storage/otp"
	"github.com/magabrotheeeer/subscription-manager/internal/storage/repository"
)

// App держит HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New инициализирует приложение: подключается к Postgres и Redis,
// прогоняет миграции, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	otps := otpstore.NewStore(cacheRedis.Db, cfg.OTPTTL)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	cookies := cookie.NewIssuer(cfg.CookieSecure, cfg.TokenTTL)

	transport := smtp.NewTransport(cfg.SMTP, logger)
	sender := senderservice.NewSenderService(logger, transport)

	authService := authservice.NewAuthService(db, otps, sender, jwtMaker, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, subscriptionService, cookies)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста,
// после чего гасит сервер с таймаутом.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		_ = a.cache.Db.Close()
		return err
	}
}
