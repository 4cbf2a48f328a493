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

	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/password"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/storage/repository"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) CreditUser(ctx context.Context, userUID string, amount float64, activityType, note string) error {
	args := m.Called(ctx, userUID, amount, activityType, note)
	return args.Error(0)
}

func (m *RepoMock) HasDailyClaim(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) AddReferralEarning(ctx context.Context, referrerUID, referredUsername string, amount float64) error {
	args := m.Called(ctx, referrerUID, referredUsername, amount)
	return args.Error(0)
}

func (m *RepoMock) ListReferrals(ctx context.Context, referrerUID string) ([]*models.ReferralRecord, error) {
	args := m.Called(ctx, referrerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReferralRecord), args.Error(1)
}

func (m *RepoMock) CreateWithdrawalRequest(ctx context.Context, userUID string, amount float64, address string) (int, error) {
	args := m.Called(ctx, userUID, amount, address)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreateDepositRequest(ctx context.Context, userUID string, amount float64, txHash string) (int, error) {
	args := m.Called(ctx, userUID, amount, txHash)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) CreateKYCSubmission(ctx context.Context, userUID, documentType, documentRef string) (int, error) {
	args := m.Called(ctx, userUID, documentType, documentRef)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RequestDeletion(ctx context.Context, userUID string, at time.Time) error {
	args := m.Called(ctx, userUID, at)
	return args.Error(0)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if args.Bool(0) {
		*result.(*models.User) = *args.Get(2).(*models.User)
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(repo *RepoMock, cache *CacheMock) *RewardsService {
	return NewRewardsService(repo, cache, 0.01, 0.1, newNoopLogger())
}

func TestGetProfile(t *testing.T) {
	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "user:uid-1", mock.Anything).
			Return(true, nil, &models.User{UUID: "uid-1", Username: "alice"})

		user, err := newService(repo, cache).GetProfile(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		cache.On("Get", "user:uid-1", mock.Anything).Return(false, nil, nil)
		repo.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Username: "alice"}, nil)
		cache.On("Set", "user:uid-1", mock.Anything, mock.Anything).Return(nil)

		user, err := newService(repo, cache).GetProfile(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})
}

func TestWatchAd(t *testing.T) {
	t.Run("credits viewer without referrer", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Username: "alice"}, nil)
		repo.On("CreditUser", mock.Anything, "uid-1", 0.01, models.ActivityAd, "ad view").
			Return(nil)
		cache.On("Invalidate", "user:uid-1").Return(nil)

		reward, err := newService(repo, cache).WatchAd(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.InDelta(t, 0.01, reward, 1e-9)
		repo.AssertExpectations(t)
	})

	t.Run("pays referral commission", func(t *testing.T) {
		referrer := "bob"
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Username: "alice", ReferredBy: &referrer}, nil)
		repo.On("CreditUser", mock.Anything, "uid-1", 0.01, models.ActivityAd, "ad view").
			Return(nil)
		repo.On("GetUserByIdentifier", mock.Anything, "bob").
			Return(&models.User{UUID: "uid-2", Username: "bob"}, nil)
		repo.On("CreditUser", mock.Anything, "uid-2", 0.001, models.ActivityReferral,
			"commission from alice").Return(nil)
		repo.On("AddReferralEarning", mock.Anything, "uid-2", "alice", 0.001).Return(nil)
		cache.On("Invalidate", "user:uid-2").Return(nil)
		cache.On("Invalidate", "user:uid-1").Return(nil)

		reward, err := newService(repo, cache).WatchAd(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.InDelta(t, 0.01, reward, 1e-9)
		repo.AssertExpectations(t)
	})

	t.Run("commission failure does not break the view", func(t *testing.T) {
		referrer := "gone"
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Username: "alice", ReferredBy: &referrer}, nil)
		repo.On("CreditUser", mock.Anything, "uid-1", 0.01, models.ActivityAd, "ad view").
			Return(nil)
		repo.On("GetUserByIdentifier", mock.Anything, "gone").
			Return(nil, errors.New("not found"))
		cache.On("Invalidate", "user:uid-1").Return(nil)

		_, err := newService(repo, cache).WatchAd(context.Background(), "uid-1")
		require.NoError(t, err)
	})
}

func TestClaimDailyReward(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *RepoMock, cache *CacheMock)
		want      float64
		wantErr   error
	}{
		{
			name: "tier 3 pays its daily reward",
			setupMock: func(repo *RepoMock, cache *CacheMock) {
				repo.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UUID: "uid-1", VIPTier: 3}, nil)
				repo.On("HasDailyClaim", mock.Anything, "uid-1").Return(false, nil)
				repo.On("CreditUser", mock.Anything, "uid-1", 3.0, models.ActivityDailyReward,
					"daily reward, tier 3 (Gold)").Return(nil)
				cache.On("Invalidate", "user:uid-1").Return(nil)
			},
			want: 3.0,
		},
		{
			name: "not vip",
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UUID: "uid-1", VIPTier: 0}, nil)
			},
			wantErr: ErrNotVIP,
		},
		{
			name: "already claimed today",
			setupMock: func(repo *RepoMock, _ *CacheMock) {
				repo.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UUID: "uid-1", VIPTier: 1}, nil)
				repo.On("HasDailyClaim", mock.Anything, "uid-1").Return(true, nil)
			},
			wantErr: ErrAlreadyClaimed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMock(repo, cache)

			got, err := newService(repo, cache).ClaimDailyReward(context.Background(), "uid-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.InDelta(t, tt.want, got, 1e-9)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestRequestDeletion(t *testing.T) {
	hash, err := password.GetHash("correct-horse")
	require.NoError(t, err)

	t.Run("correct password flags the account", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Username: "alice", PasswordHash: hash}, nil)
		repo.On("RequestDeletion", mock.Anything, "uid-1", mock.AnythingOfType("time.Time")).
			Return(nil)
		cache.On("Invalidate", "user:uid-1").Return(nil)

		err := newService(repo, cache).RequestDeletion(context.Background(), "uid-1", "correct-horse")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password leaves the account untouched", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("GetUser", mock.Anything, "uid-1").
			Return(&models.User{UUID: "uid-1", Username: "alice", PasswordHash: hash}, nil)

		err := newService(repo, cache).RequestDeletion(context.Background(), "uid-1", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidPassword)
		repo.AssertNotCalled(t, "RequestDeletion", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRequestWithdrawal(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		repo.On("CreateWithdrawalRequest", mock.Anything, "uid-1", 25.0, "TAddr").Return(11, nil)
		cache.On("Invalidate", "user:uid-1").Return(nil)

		id, err := newService(repo, cache).RequestWithdrawal(context.Background(), "uid-1", 25.0, "TAddr")
		require.NoError(t, err)
		assert.Equal(t, 11, id)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("CreateWithdrawalRequest", mock.Anything, "uid-1", 25.0, "TAddr").
			Return(0, repository.ErrInsufficientFunds)

		_, err := newService(repo, new(CacheMock)).RequestWithdrawal(context.Background(), "uid-1", 25.0, "TAddr")
		require.ErrorIs(t, err, ErrInsufficientFunds)
	})
}
