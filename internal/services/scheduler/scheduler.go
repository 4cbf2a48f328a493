// Package services содержит фоновые задачи платформы: перевод
// просроченных подписок в expired, рассылка предупреждений об истечении
// через брокер и чистка аккаунтов после grace-периода.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/rabbitmq"
)

// SubscriptionRepository описывает контракт хранилища для фоновых задач.
type SubscriptionRepository interface {
	ExpireSubscriptions(ctx context.Context, now time.Time) (int, error)
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryNotice, error)
	PurgeDeletedUsers(ctx context.Context, before time.Time) (int, error)
}

// SchedulerService запускает периодические задачи. Каждая задача
// выполняется сразу при старте, затем по тикеру.
type SchedulerService struct {
	repo              SubscriptionRepository
	deletionGraceDays int
	log               *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, deletionGraceDays int, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:              repo,
		deletionGraceDays: deletionGraceDays,
		log:               log,
	}
}

// ExpireSubscriptions раз в час переводит просроченные подписки в expired
// и сбрасывает VIP-флаги затронутых пользователей.
func (s *SchedulerService) ExpireSubscriptions(ctx context.Context) {
	s.runExpireSubscriptions(ctx)

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runExpireSubscriptions(ctx)
		}
	}
}

func (s *SchedulerService) runExpireSubscriptions(ctx context.Context) {
	s.log.Info("starting expiry sweep")
	expired, err := s.repo.ExpireSubscriptions(ctx, time.Now())
	if err != nil {
		s.log.Error("failed to expire subscriptions", sl.Err(err))
		return
	}
	if expired == 0 {
		s.log.Info("no expired subscriptions found")
		return
	}
	s.log.Info("subscriptions expired", "count", expired)
}

// NotifyExpiringSubscriptions дважды в сутки публикует в брокер сообщения
// о подписках, истекающих завтра.
func (s *SchedulerService) NotifyExpiringSubscriptions(ctx context.Context, channel *amqp.Channel) {
	s.runNotifyExpiringSubscriptions(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runNotifyExpiringSubscriptions(ctx, channel)
		}
	}
}

func (s *SchedulerService) runNotifyExpiringSubscriptions(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find subscriptions expiring tomorrow")
	notices, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(notices) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(notices))
	for _, notice := range notices {
		if err := rabbitmq.PublishMessage(channel, "notifications", "expiring", notice); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

// PurgeDeletedAccounts раз в сутки удаляет аккаунты, у которых истек
// grace-период после запроса удаления.
func (s *SchedulerService) PurgeDeletedAccounts(ctx context.Context) {
	s.runPurgeDeletedAccounts(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPurgeDeletedAccounts(ctx)
		}
	}
}

func (s *SchedulerService) runPurgeDeletedAccounts(ctx context.Context) {
	s.log.Info("starting deleted accounts purge")
	cutoff := time.Now().AddDate(0, 0, -s.deletionGraceDays)
	purged, err := s.repo.PurgeDeletedUsers(ctx, cutoff)
	if err != nil {
		s.log.Error("failed to purge deleted accounts", sl.Err(err))
		return
	}
	if purged == 0 {
		s.log.Info("no accounts to purge")
		return
	}
	s.log.Info("accounts purged", "count", purged)
}
