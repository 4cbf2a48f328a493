package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/jwt"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) UserExists(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User, referrerUID string, bonus float64) (string, error) {
	args := m.Called(ctx, user, referrerUID, bonus)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type SessionRepoMock struct {
	mock.Mock
}

func (m *SessionRepoMock) CreateSession(ctx context.Context, session models.DeviceSession) (int, error) {
	args := m.Called(ctx, session)
	return args.Int(0), args.Error(1)
}

type GeoMock struct {
	mock.Mock
}

func (m *GeoMock) Lookup(ctx context.Context) models.GeoInfo {
	args := m.Called(ctx)
	return args.Get(0).(models.GeoInfo)
}

type MakerMock struct {
	mock.Mock
}

func (m *MakerMock) GenerateToken(username, role, userUID string) (string, error) {
	args := m.Called(username, role, userUID)
	return args.String(0), args.Error(1)
}

func (m *MakerMock) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name         string
		referralCode string
		setupMock    func(users *UserRepoMock)
		wantErr      error
	}{
		{
			name: "success without referral",
			setupMock: func(users *UserRepoMock) {
				users.On("UserExists", mock.Anything, "alice", "alice@example.com").
					Return(false, nil)
				users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Username == "alice" && u.Role == "user" &&
						u.ReferredBy == nil && len(u.ReferralCode) == 8
				}), "", 0.5).Return("uid-1", nil)
			},
		},
		{
			name:         "success with referral code",
			referralCode: "ABCD1234",
			setupMock: func(users *UserRepoMock) {
				users.On("UserExists", mock.Anything, "alice", "alice@example.com").
					Return(false, nil)
				users.On("GetUserByReferralCode", mock.Anything, "ABCD1234").
					Return(&models.User{UUID: "ref-uid", Username: "bob"}, nil)
				users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.ReferredBy != nil && *u.ReferredBy == "bob"
				}), "ref-uid", 0.5).Return("uid-1", nil)
			},
		},
		{
			name:         "unknown referral code is ignored",
			referralCode: "NOPE0000",
			setupMock: func(users *UserRepoMock) {
				users.On("UserExists", mock.Anything, "alice", "alice@example.com").
					Return(false, nil)
				users.On("GetUserByReferralCode", mock.Anything, "NOPE0000").
					Return(nil, errors.New("not found"))
				users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.ReferredBy == nil
				}), "", 0.5).Return("uid-1", nil)
			},
		},
		{
			name: "username taken",
			setupMock: func(users *UserRepoMock) {
				users.On("UserExists", mock.Anything, "alice", "alice@example.com").
					Return(true, nil)
			},
			wantErr: ErrUserExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			tt.setupMock(users)

			service := NewAuthService(users, new(SessionRepoMock), new(GeoMock),
				new(MakerMock), 0.5, newNoopLogger())
			uid, err := service.Register(context.Background(), "alice@example.com",
				"alice", "secret123", tt.referralCode)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "uid-1", uid)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestRegister_PasswordIsHashed(t *testing.T) {
	users := new(UserRepoMock)
	users.On("UserExists", mock.Anything, "alice", "alice@example.com").
		Return(false, nil)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
	}), "", 0.5).Return("uid-1", nil)

	service := NewAuthService(users, new(SessionRepoMock), new(GeoMock),
		new(MakerMock), 0.5, newNoopLogger())
	_, err := service.Register(context.Background(), "alice@example.com", "alice", "secret123", "")
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	storedUser := &models.User{
		UUID:         "uid-1",
		Username:     "alice",
		Role:         "user",
		PasswordHash: string(hash),
	}

	tests := []struct {
		name      string
		password  string
		setupMock func(users *UserRepoMock, sessions *SessionRepoMock, geo *GeoMock, maker *MakerMock)
		wantErr   error
	}{
		{
			name:     "success records session",
			password: "secret123",
			setupMock: func(users *UserRepoMock, sessions *SessionRepoMock, geo *GeoMock, maker *MakerMock) {
				users.On("GetUserByIdentifier", mock.Anything, "alice").Return(storedUser, nil)
				maker.On("GenerateToken", "alice", "user", "uid-1").Return("token", nil)
				geo.On("Lookup", mock.Anything).Return(models.GeoInfo{IP: "1.2.3.4", Location: "Berlin, Germany"})
				sessions.On("CreateSession", mock.Anything, mock.MatchedBy(func(s models.DeviceSession) bool {
					return s.UserUID == "uid-1" && s.IP == "1.2.3.4" && s.DeviceType == "desktop"
				})).Return(1, nil)
			},
		},
		{
			name:     "wrong password",
			password: "wrong",
			setupMock: func(users *UserRepoMock, _ *SessionRepoMock, _ *GeoMock, _ *MakerMock) {
				users.On("GetUserByIdentifier", mock.Anything, "alice").Return(storedUser, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			password: "secret123",
			setupMock: func(users *UserRepoMock, _ *SessionRepoMock, _ *GeoMock, _ *MakerMock) {
				users.On("GetUserByIdentifier", mock.Anything, "alice").
					Return(nil, errors.New("not found"))
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "session write failure does not block login",
			password: "secret123",
			setupMock: func(users *UserRepoMock, sessions *SessionRepoMock, geo *GeoMock, maker *MakerMock) {
				users.On("GetUserByIdentifier", mock.Anything, "alice").Return(storedUser, nil)
				maker.On("GenerateToken", "alice", "user", "uid-1").Return("token", nil)
				geo.On("Lookup", mock.Anything).Return(models.GeoInfo{IP: "Unavailable", Location: "Unavailable"})
				sessions.On("CreateSession", mock.Anything, mock.Anything).
					Return(0, errors.New("db down"))
			},
		},
	}

	const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			sessions := new(SessionRepoMock)
			geo := new(GeoMock)
			maker := new(MakerMock)
			tt.setupMock(users, sessions, geo, maker)

			service := NewAuthService(users, sessions, geo, maker, 0.5, newNoopLogger())
			token, user, err := service.Login(context.Background(), "alice", tt.password, chromeUA)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "token", token)
				assert.Equal(t, "uid-1", user.UUID)
			}
			users.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestValidateToken(t *testing.T) {
	maker := new(MakerMock)
	maker.On("ParseToken", "good").Return(&jwt.CustomClaims{
		Username: "alice", Role: "admin", UserUID: "uid-1",
	}, nil)
	maker.On("ParseToken", "bad").Return(nil, errors.New("token is invalid"))

	service := NewAuthService(new(UserRepoMock), new(SessionRepoMock), new(GeoMock),
		maker, 0.5, newNoopLogger())

	user, err := service.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	_, err = service.ValidateToken(context.Background(), "bad")
	require.Error(t, err)
}
