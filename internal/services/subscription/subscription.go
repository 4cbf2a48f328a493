// Package services содержит логику покупки, отмены и автоматического
// истечения подписок (VIP-уровни и премиум без рекламы).
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/metrics"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/storage/repository"
)

// Ошибки уровня бизнес-логики подписок.
var (
	// ErrUnknownTier запрошенный VIP-уровень не существует.
	ErrUnknownTier = errors.New("unknown vip tier")
	// ErrAlreadySubscribed у пользователя уже есть действующая подписка этого типа.
	ErrAlreadySubscribed = errors.New("active subscription already exists")
	// ErrInsufficientFunds на балансе не хватает средств.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNoActiveSubscription отменять нечего.
	ErrNoActiveSubscription = errors.New("no active subscription")
)

// PremiumPrice и PremiumDurationDays параметры премиум-подписки без рекламы.
const (
	PremiumPrice        = 9.99
	PremiumDurationDays = 30
)

// SubscriptionRepository описывает контракт хранилища подписок.
type SubscriptionRepository interface {
	PurchaseSubscription(ctx context.Context, rec models.SubscriptionRecord) (int, error)
	HasActiveSubscription(ctx context.Context, userUID, subType string) (bool, error)
	ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.SubscriptionRecord, error)
	CancelActiveSubscriptions(ctx context.Context, userUID string) (int, error)
	ExpireSubscriptions(ctx context.Context, now time.Time) (int, error)
}

// Cache описывает инвалидацию кешированных пользовательских записей.
type Cache interface {
	Invalidate(key string) error
}

// SubscriptionService отвечает за покупку, отмену и истечение подписок.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, cache: cache, log: log}
}

// AddSubscription оформляет подписку. Для VIP стоимость и длительность
// берутся из таблицы уровней, для премиум действует фиксированная цена.
// Оплата с баланса и запись истории выполняются одной транзакцией.
func (s *SubscriptionService) AddSubscription(ctx context.Context, userUID string, sub models.DummySubscription) (int, error) {
	var amount float64
	var durationDays int

	switch sub.Type {
	case models.SubscriptionTypeVIP:
		tier, ok := models.FindVIPTier(sub.Tier)
		if !ok {
			return 0, ErrUnknownTier
		}
		amount = tier.Price
		durationDays = models.VIPDurationDays
	default:
		amount = PremiumPrice
		durationDays = PremiumDurationDays
	}

	active, err := s.repo.HasActiveSubscription(ctx, userUID, sub.Type)
	if err != nil {
		return 0, err
	}
	if active {
		return 0, ErrAlreadySubscribed
	}

	now := time.Now()
	rec := models.SubscriptionRecord{
		UserUID:       userUID,
		Type:          sub.Type,
		Tier:          sub.Tier,
		Amount:        amount,
		DurationDays:  durationDays,
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, durationDays),
		Status:        models.SubscriptionActive,
		PaymentMethod: sub.PaymentMethod,
	}
	id, err := s.repo.PurchaseSubscription(ctx, rec)
	if errors.Is(err, repository.ErrInsufficientFunds) {
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}

	if err := s.cache.Invalidate("user:" + userUID); err != nil {
		s.log.Warn("failed to invalidate user cache", slog.String("user_uid", userUID))
	}
	metrics.SubscriptionsPurchased.WithLabelValues(sub.Type).Inc()
	return id, nil
}

// CancelSubscription отменяет все действующие подписки пользователя.
func (s *SubscriptionService) CancelSubscription(ctx context.Context, userUID string) (int, error) {
	cancelled, err := s.repo.CancelActiveSubscriptions(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if cancelled == 0 {
		return 0, ErrNoActiveSubscription
	}
	if err := s.cache.Invalidate("user:" + userUID); err != nil {
		s.log.Warn("failed to invalidate user cache", slog.String("user_uid", userUID))
	}
	return cancelled, nil
}

// ListSubscriptions возвращает историю подписок пользователя.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.SubscriptionRecord, error) {
	return s.repo.ListSubscriptions(ctx, userUID, limit, offset)
}

// CheckExpiredSubscriptions переводит просроченные подписки в expired.
// Вызывается планировщиком, не пользовательскими запросами.
func (s *SubscriptionService) CheckExpiredSubscriptions(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireSubscriptions(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("expire sweep: %w", err)
	}
	return expired, nil
}
