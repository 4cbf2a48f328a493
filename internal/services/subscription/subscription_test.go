package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) PurchaseSubscription(ctx context.Context, rec models.SubscriptionRecord) (int, error) {
	args := m.Called(ctx, rec)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) HasActiveSubscription(ctx context.Context, userUID, subType string) (bool, error) {
	args := m.Called(ctx, userUID, subType)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.SubscriptionRecord, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionRecord), args.Error(1)
}

func (m *RepoMock) CancelActiveSubscriptions(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ExpireSubscriptions(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAddSubscription(t *testing.T) {
	tests := []struct {
		name      string
		sub       models.DummySubscription
		setupMock func(repo *RepoMock, cache *CacheMock)
		wantErr   error
	}{
		{
			name: "vip purchase uses tier price and year duration",
			sub: models.DummySubscription{
				Type: models.SubscriptionTypeVIP, Tier: 3,
				PaymentMethod: models.PaymentMethodWallet,
			},
			setupMock: func(repo *RepoMock, cache *CacheMock) {
				repo.On("HasActiveSubscription", mock.Anything, "uid-1", models.SubscriptionTypeVIP).
					Return(false, nil)
				repo.On("PurchaseSubscription", mock.Anything, mock.MatchedBy(func(rec models.SubscriptionRecord) bool {
					tier, _ := models.FindVIPTier(3)
					return rec.Tier == 3 && rec.Amount == tier.Price &&
						rec.DurationDays == models.VIPDurationDays &&
						rec.Status == models.SubscriptionActive
				})).Return(7, nil)
				cache.On("Invalidate", "user:uid-1").Return(nil)
			},
		},
		{
			name: "premium purchase uses fixed price",
			sub: models.DummySubscription{
				Type:          models.SubscriptionTypePremium,
				PaymentMethod: models.PaymentMethodWallet,
			},
			setupMock: func(repo *RepoMock, cache *CacheMock) {
				repo.On("HasActiveSubscription", mock.Anything, "uid-1", models.SubscriptionTypePremium).
					Return(false, nil)
				repo.On("PurchaseSubscription", mock.Anything, mock.MatchedBy(func(rec models.SubscriptionRecord) bool {
					return rec.Amount == PremiumPrice && rec.DurationDays == PremiumDurationDays
				})).Return(8, nil)
				cache.On("Invalidate", "user:uid-1").Return(nil)
			},
		},
		{
			name: "unknown vip tier",
			sub: models.DummySubscription{
				Type: models.SubscriptionTypeVIP, Tier: 9,
				PaymentMethod: models.PaymentMethodWallet,
			},
			setupMock: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:   ErrUnknownTier,
		},
		{
			name: "already subscribed",
			sub: models.DummySubscription{
				Type: models.SubscriptionTypeVIP, Tier: 1,
				PaymentMethod: models.PaymentMethodWallet,
			},
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("HasActiveSubscription", mock.Anything, "uid-1", models.SubscriptionTypeVIP).
					Return(true, nil)
			},
			wantErr: ErrAlreadySubscribed,
		},
		{
			name: "insufficient funds",
			sub: models.DummySubscription{
				Type: models.SubscriptionTypeVIP, Tier: 7,
				PaymentMethod: models.PaymentMethodWallet,
			},
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("HasActiveSubscription", mock.Anything, "uid-1", models.SubscriptionTypeVIP).
					Return(false, nil)
				repo.On("PurchaseSubscription", mock.Anything, mock.Anything).
					Return(0, repository.ErrInsufficientFunds)
			},
			wantErr: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMock(repo, cache)

			service := NewSubscriptionService(repo, cache, newNoopLogger())
			id, err := service.AddSubscription(context.Background(), "uid-1", tt.sub)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, id)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCancelSubscription(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *RepoMock, cache *CacheMock)
		want      int
		wantErr   error
	}{
		{
			name: "success",
			setupMock: func(repo *RepoMock, cache *CacheMock) {
				repo.On("CancelActiveSubscriptions", mock.Anything, "uid-1").Return(2, nil)
				cache.On("Invalidate", "user:uid-1").Return(nil)
			},
			want: 2,
		},
		{
			name: "nothing to cancel",
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("CancelActiveSubscriptions", mock.Anything, "uid-1").Return(0, nil)
			},
			wantErr: ErrNoActiveSubscription,
		},
		{
			name: "repository failure",
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("CancelActiveSubscriptions", mock.Anything, "uid-1").
					Return(0, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMock(repo, cache)

			service := NewSubscriptionService(repo, cache, newNoopLogger())
			got, err := service.CancelSubscription(context.Background(), "uid-1")

			if tt.wantErr != nil {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCheckExpiredSubscriptions(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ExpireSubscriptions", mock.Anything, mock.Anything).Return(3, nil)

	service := NewSubscriptionService(repo, new(CacheMock), newNoopLogger())
	expired, err := service.CheckExpiredSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, expired)
	repo.AssertExpectations(t)
}
