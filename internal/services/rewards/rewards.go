// Package services содержит логику начислений: просмотры рекламы,
// ежедневные VIP-награды, реферальные комиссии, заявки на вывод
// и пополнение, профиль кошелька.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/cache"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/password"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/metrics"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/storage/repository"
)

// Ошибки уровня бизнес-логики начислений.
var (
	// ErrInsufficientFunds на балансе не хватает средств.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNotVIP ежедневная награда доступна только VIP-пользователям.
	ErrNotVIP = errors.New("daily reward requires an active vip tier")
	// ErrAlreadyClaimed ежедневная награда уже получена сегодня.
	ErrAlreadyClaimed = errors.New("daily reward already claimed today")
	// ErrInvalidPassword пароль не совпадает с хешем пользователя.
	ErrInvalidPassword = errors.New("invalid password")
)

// RewardsRepository описывает контракт хранилища для начислений и заявок.
type RewardsRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	CreditUser(ctx context.Context, userUID string, amount float64, activityType, note string) error
	HasDailyClaim(ctx context.Context, userUID string) (bool, error)
	AddReferralEarning(ctx context.Context, referrerUID, referredUsername string, amount float64) error
	ListReferrals(ctx context.Context, referrerUID string) ([]*models.ReferralRecord, error)
	CreateWithdrawalRequest(ctx context.Context, userUID string, amount float64, address string) (int, error)
	CreateDepositRequest(ctx context.Context, userUID string, amount float64, txHash string) (int, error)
	CreateKYCSubmission(ctx context.Context, userUID, documentType, documentRef string) (int, error)
	RequestDeletion(ctx context.Context, userUID string, at time.Time) error
}

// UserCache описывает кеш пользовательских записей.
type UserCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// RewardsService отвечает за все денежные операции пользователя.
type RewardsService struct {
	repo          RewardsRepository
	cache         UserCache
	adViewReward  float64
	referralShare float64
	log           *slog.Logger
}

// NewRewardsService создает новый экземпляр RewardsService.
func NewRewardsService(repo RewardsRepository, userCache UserCache,
	adViewReward, referralShare float64, log *slog.Logger) *RewardsService {
	return &RewardsService{
		repo:          repo,
		cache:         userCache,
		adViewReward:  adViewReward,
		referralShare: referralShare,
		log:           log,
	}
}

func userCacheKey(userUID string) string {
	return "user:" + userUID
}

// GetProfile возвращает пользовательскую запись, по возможности из кеша.
func (s *RewardsService) GetProfile(ctx context.Context, userUID string) (*models.User, error) {
	key := userCacheKey(userUID)
	var cached models.User
	hit, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("user cache read failed", sl.Err(err))
	}
	if hit {
		return &cached, nil
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, user, cache.UserTTL); err != nil {
		s.log.Warn("user cache write failed", sl.Err(err))
	}
	return user, nil
}

// WatchAd засчитывает один просмотр рекламы: начисляет награду зрителю
// и реферальную комиссию пригласившему, если он есть. Возвращает сумму,
// начисленную зрителю.
func (s *RewardsService) WatchAd(ctx context.Context, userUID string) (float64, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return 0, err
	}

	if err := s.repo.CreditUser(ctx, userUID, s.adViewReward, models.ActivityAd, "ad view"); err != nil {
		return 0, err
	}
	metrics.AdViews.Inc()
	metrics.RewardsPaid.WithLabelValues(models.ActivityAd).Add(s.adViewReward)

	if user.ReferredBy != nil {
		if err := s.payReferralCommission(ctx, *user.ReferredBy, user.Username); err != nil {
			// комиссия не блокирует начисление зрителю
			s.log.Error("failed to pay referral commission", sl.Err(err))
		}
	}

	if err := s.cache.Invalidate(userCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return s.adViewReward, nil
}

// payReferralCommission начисляет пригласившему долю от награды за просмотр.
func (s *RewardsService) payReferralCommission(ctx context.Context, referrerUsername, referredUsername string) error {
	referrer, err := s.repo.GetUserByIdentifier(ctx, referrerUsername)
	if err != nil {
		return err
	}
	commission := s.adViewReward * s.referralShare
	note := fmt.Sprintf("commission from %s", referredUsername)
	if err := s.repo.CreditUser(ctx, referrer.UUID, commission, models.ActivityReferral, note); err != nil {
		return err
	}
	if err := s.repo.AddReferralEarning(ctx, referrer.UUID, referredUsername, commission); err != nil {
		return err
	}
	metrics.RewardsPaid.WithLabelValues(models.ActivityReferral).Add(commission)
	if err := s.cache.Invalidate(userCacheKey(referrer.UUID)); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return nil
}

// ClaimDailyReward начисляет ежедневную награду VIP-уровня. Доступна
// раз в календарные сутки и только при действующем VIP.
func (s *RewardsService) ClaimDailyReward(ctx context.Context, userUID string) (float64, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return 0, err
	}
	tier, ok := models.FindVIPTier(user.VIPTier)
	if !ok {
		return 0, ErrNotVIP
	}

	claimed, err := s.repo.HasDailyClaim(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if claimed {
		return 0, ErrAlreadyClaimed
	}

	note := fmt.Sprintf("daily reward, tier %d (%s)", tier.Tier, tier.Name)
	if err := s.repo.CreditUser(ctx, userUID, tier.DailyReward, models.ActivityDailyReward, note); err != nil {
		return 0, err
	}
	metrics.RewardsPaid.WithLabelValues(models.ActivityDailyReward).Add(tier.DailyReward)

	if err := s.cache.Invalidate(userCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return tier.DailyReward, nil
}

// RequestWithdrawal создает заявку на вывод. Сумма блокируется на балансе
// до решения администратора.
func (s *RewardsService) RequestWithdrawal(ctx context.Context, userUID string, amount float64, address string) (int, error) {
	id, err := s.repo.CreateWithdrawalRequest(ctx, userUID, amount, address)
	if errors.Is(err, repository.ErrInsufficientFunds) {
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(userCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return id, nil
}

// SubmitDeposit создает заявку на пополнение по хэшу транзакции.
func (s *RewardsService) SubmitDeposit(ctx context.Context, userUID string, amount float64, txHash string) (int, error) {
	return s.repo.CreateDepositRequest(ctx, userUID, amount, txHash)
}

// SubmitKYC создает заявку на верификацию личности.
func (s *RewardsService) SubmitKYC(ctx context.Context, userUID, documentType, documentRef string) (int, error) {
	id, err := s.repo.CreateKYCSubmission(ctx, userUID, documentType, documentRef)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(userCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return id, nil
}

// ListReferrals возвращает приглашенных пользователей и заработок с каждого.
func (s *RewardsService) ListReferrals(ctx context.Context, userUID string) ([]*models.ReferralRecord, error) {
	return s.repo.ListReferrals(ctx, userUID)
}

// RequestDeletion помечает аккаунт на удаление после подтверждения паролем.
// Пользователь может передумать до конца grace-периода, фактическую чистку
// выполняет планировщик.
func (s *RewardsService) RequestDeletion(ctx context.Context, userUID, currentPassword string) error {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidPassword
	}

	if err := s.repo.RequestDeletion(ctx, userUID, time.Now()); err != nil {
		return err
	}
	if err := s.cache.Invalidate(userCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return nil
}
