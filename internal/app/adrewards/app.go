// Package adrewards собирает основное HTTP-приложение платформы:
// хранилище, кеш, JWT, геолокацию и все сервисы с маршрутами.
package adrewards

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/cache"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/config"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/geoip"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/jwt"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/migrations"
	adminservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/admin"
	authservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/auth"
	notificationservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/notification"
	rewardsservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/rewards"
	sessionservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/session"
	subscriptionservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/subscription"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

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

	geoClient := geoip.NewClient(logger)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, db, geoClient, jwtMaker, cfg.SignupBonus, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, cacheRedis, logger)
	rewardsService := rewardsservice.NewRewardsService(db, cacheRedis, cfg.AdViewReward, cfg.ReferralShare, logger)
	sessionService := sessionservice.NewSessionService(db, logger)
	notificationService := notificationservice.NewNotificationService(db, logger)
	adminService := adminservice.NewAdminService(db, cacheRedis, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger,
		authService, subscriptionService, rewardsService,
		sessionService, notificationService, adminService)

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
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
