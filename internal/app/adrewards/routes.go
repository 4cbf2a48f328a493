// Package adrewards предоставляет маршруты для основного приложения.
package adrewards

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	activitylist "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/activity/list"
	admindeposits "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/admin/deposits"
	adminkyc "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/admin/kyc"
	adminwithdrawals "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/admin/withdrawals"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/auth/login"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/auth/register"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/health"
	kycsubmit "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/kyc/submit"
	notificationlist "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/notification/list"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/notification/markread"
	profiledelete "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/profile/delete"
	profileread "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/profile/read"
	referrallist "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/referral/list"
	sessionlist "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/session/list"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/session/terminate"
	sessiontouch "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/session/touch"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/subscription/cancel"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/subscription/create"
	subscriptionlist "github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/subscription/list"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/subscription/tiers"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/wallet/claim"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/wallet/deposit"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/wallet/reward"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/handlers/wallet/withdraw"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"

	adminservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/admin"
	authservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/auth"
	notificationservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/notification"
	rewardsservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/rewards"
	sessionservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/session"
	subscriptionservice "github.com/ballenosman966/admoneyhosting-sub001/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	subscriptionService *subscriptionservice.SubscriptionService,
	rewardsService *rewardsservice.RewardsService,
	sessionService *sessionservice.SessionService,
	notificationService *notificationservice.NotificationService,
	adminService *adminservice.AdminService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/subscriptions/tiers", tiers.New(logger).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/profile", profileread.New(logger, rewardsService).ServeHTTP)
			r.Delete("/profile", profiledelete.New(logger, rewardsService).ServeHTTP)

			r.Post("/ads/watch", reward.New(logger, rewardsService).ServeHTTP)
			r.Post("/rewards/daily", claim.New(logger, rewardsService).ServeHTTP)
			r.Post("/wallet/withdraw", withdraw.New(logger, rewardsService).ServeHTTP)
			r.Post("/wallet/deposit", deposit.New(logger, rewardsService).ServeHTTP)
			r.Post("/kyc", kycsubmit.New(logger, rewardsService).ServeHTTP)
			r.Get("/referrals", referrallist.New(logger, rewardsService).ServeHTTP)

			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions", subscriptionlist.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions", cancel.New(logger, subscriptionService).ServeHTTP)

			r.Get("/sessions", sessionlist.New(logger, sessionService).ServeHTTP)
			r.Delete("/sessions/others", terminate.NewOthers(logger, sessionService).ServeHTTP)
			r.Delete("/sessions/{id}", terminate.New(logger, sessionService).ServeHTTP)
			r.Post("/sessions/{id}/touch", sessiontouch.New(logger, sessionService).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, notificationService).ServeHTTP)
			r.Post("/notifications/{id}/read", markread.New(logger, notificationService).ServeHTTP)
			r.Get("/activity", activitylist.New(logger, notificationService).ServeHTTP)

			// Группа административных конечных точек
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/admin/withdrawals", adminwithdrawals.NewList(logger, adminService).ServeHTTP)
				r.Post("/admin/withdrawals/{id}", adminwithdrawals.NewReview(logger, adminService).ServeHTTP)
				r.Get("/admin/deposits", admindeposits.NewList(logger, adminService).ServeHTTP)
				r.Post("/admin/deposits/{id}", admindeposits.NewReview(logger, adminService).ServeHTTP)
				r.Get("/admin/kyc", adminkyc.NewList(logger, adminService).ServeHTTP)
				r.Post("/admin/kyc/{id}", adminkyc.NewReview(logger, adminService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
