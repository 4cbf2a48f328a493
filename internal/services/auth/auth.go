// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и учёта сессий устройств.
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/jwt"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/password"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/useragent"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// Ошибки аутентификации, различаемые на уровне HTTP.
var (
	// ErrUserExists email или username уже заняты.
	ErrUserExists = errors.New("email or username already taken")
	// ErrInvalidCredentials неверный логин или пароль. Намеренно общая:
	// не раскрывает, существует ли пользователь.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// UserExists проверяет занятость email или username.
	UserExists(ctx context.Context, username, email string) (bool, error)
	// RegisterUser сохраняет пользователя и реферальное начисление одной транзакцией.
	RegisterUser(ctx context.Context, user models.User, referrerUID string, bonus float64) (string, error)
	// GetUserByIdentifier возвращает пользователя по username либо email.
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// GetUserByReferralCode возвращает владельца реферального кода.
	GetUserByReferralCode(ctx context.Context, code string) (*models.User, error)
}

// SessionRepository описывает запись сессий устройств.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.DeviceSession) (int, error)
}

// GeoResolver определяет публичный IP и локацию текущего клиента.
type GeoResolver interface {
	Lookup(ctx context.Context) models.GeoInfo
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users       UserRepository
	sessions    SessionRepository
	geo         GeoResolver
	jwtMaker    jwt.Maker
	signupBonus float64
	log         *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionRepository, geo GeoResolver,
	jwtMaker jwt.Maker, signupBonus float64, log *slog.Logger) *AuthService {
	return &AuthService{
		users:       users,
		sessions:    sessions,
		geo:         geo,
		jwtMaker:    jwtMaker,
		signupBonus: signupBonus,
		log:         log,
	}
}

// newReferralCode генерирует случайный код для атрибуции регистраций.
func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user". Если передан действительный реферальный код, реферальная
// запись и бонус реферера пишутся в той же транзакции, что и пользователь.
// Неизвестный код не считается ошибкой регистрации.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword, referralCode string) (string, error) {
	taken, err := s.users.UserExists(ctx, username, email)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrUserExists
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}

	var referrerUID string
	var referredBy *string
	if referralCode != "" {
		referrer, err := s.users.GetUserByReferralCode(ctx, referralCode)
		if err != nil {
			s.log.Warn("unknown referral code ignored", slog.String("code", referralCode))
		} else {
			referrerUID = referrer.UUID
			referredBy = &referrer.Username
		}
	}

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
		ReferralCode: newReferralCode(),
		ReferredBy:   referredBy,
	}
	return s.users.RegisterUser(ctx, user, referrerUID, s.signupBonus)
}

// Login проверяет пароль пользователя, генерирует JWT и создает запись
// сессии устройства: тип/браузер/ОС из user-agent, IP и локация через
// цепочку geo-сервисов (best effort, сессия создается в любом случае).
func (s *AuthService) Login(ctx context.Context, identifier, rawPassword, userAgent string) (string, *models.User, error) {
	user, err := s.users.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UUID)
	if err != nil {
		return "", nil, err
	}

	deviceType, browser, osName := useragent.Classify(userAgent)
	geo := s.geo.Lookup(ctx)
	session := models.DeviceSession{
		UserUID:    user.UUID,
		DeviceType: deviceType,
		Browser:    browser,
		OS:         osName,
		IP:         geo.IP,
		Location:   geo.Location,
	}
	if _, err := s.sessions.CreateSession(ctx, session); err != nil {
		// вход не блокируется из-за учёта сессий
		s.log.Error("failed to record device session", sl.Err(err))
	}

	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UUID:     claims.UserUID,
	}, nil
}
