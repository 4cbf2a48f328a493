// Package services содержит логику управления сессиями устройств.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// ErrSessionNotFound сессия не существует или принадлежит другому пользователю.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository описывает контракт хранилища сессий устройств.
type SessionRepository interface {
	ListSessions(ctx context.Context, userUID string) ([]*models.DeviceSession, error)
	TouchSession(ctx context.Context, id int, userUID string) error
	TerminateSession(ctx context.Context, id int, userUID string) (int, error)
	TerminateOtherSessions(ctx context.Context, userUID string, keepID int) (int, error)
}

// SessionService отвечает за просмотр и завершение сессий устройств.
type SessionService struct {
	repo SessionRepository
	log  *slog.Logger
}

// NewSessionService создает новый экземпляр SessionService.
func NewSessionService(repo SessionRepository, log *slog.Logger) *SessionService {
	return &SessionService{repo: repo, log: log}
}

// ListSessions возвращает сессии пользователя, текущая первой.
func (s *SessionService) ListSessions(ctx context.Context, userUID string) ([]*models.DeviceSession, error) {
	return s.repo.ListSessions(ctx, userUID)
}

// TouchSession обновляет время последней активности сессии.
func (s *SessionService) TouchSession(ctx context.Context, id int, userUID string) error {
	return s.repo.TouchSession(ctx, id, userUID)
}

// TerminateSession завершает одну сессию. Чужие сессии недоступны:
// для них возвращается ErrSessionNotFound.
func (s *SessionService) TerminateSession(ctx context.Context, id int, userUID string) error {
	deleted, err := s.repo.TerminateSession(ctx, id, userUID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// TerminateOtherSessions завершает все сессии пользователя, кроме указанной.
// Возвращает количество завершенных.
func (s *SessionService) TerminateOtherSessions(ctx context.Context, userUID string, keepID int) (int, error) {
	return s.repo.TerminateOtherSessions(ctx, userUID, keepID)
}
