// Package services содержит логику пользовательских уведомлений
// и журнала активности.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// ErrNotificationNotFound уведомление не существует или принадлежит
// другому пользователю.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository описывает контракт хранилища уведомлений и журнала.
type NotificationRepository interface {
	ListNotifications(ctx context.Context, userUID string, limit, offset int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int, userUID string) (int, error)
	ListActivity(ctx context.Context, userUID string, limit, offset int) ([]*models.ActivityRecord, error)
}

// NotificationService отвечает за чтение уведомлений и журнала активности.
type NotificationService struct {
	repo NotificationRepository
	log  *slog.Logger
}

// NewNotificationService создает новый экземпляр NotificationService.
func NewNotificationService(repo NotificationRepository, log *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log}
}

// ListNotifications возвращает уведомления пользователя, новые сверху.
func (s *NotificationService) ListNotifications(ctx context.Context, userUID string, limit, offset int) ([]*models.Notification, error) {
	return s.repo.ListNotifications(ctx, userUID, limit, offset)
}

// MarkRead выставляет флаг прочтения уведомления.
func (s *NotificationService) MarkRead(ctx context.Context, id int, userUID string) error {
	updated, err := s.repo.MarkNotificationRead(ctx, id, userUID)
	if err != nil {
		return err
	}
	if updated == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// ListActivity возвращает журнал активности пользователя, новые сверху.
func (s *NotificationService) ListActivity(ctx context.Context, userUID string, limit, offset int) ([]*models.ActivityRecord, error) {
	return s.repo.ListActivity(ctx, userUID, limit, offset)
}
