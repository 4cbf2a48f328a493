// Package services содержит логику административной панели: очереди
// заявок на вывод, пополнение и верификацию, вынесение решений
// с уведомлением владельца заявки.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/storage/repository"
)

// ErrRequestNotFound заявка не существует или уже рассмотрена.
var ErrRequestNotFound = errors.New("pending request not found")

// AdminRepository описывает контракт хранилища для административных операций.
type AdminRepository interface {
	ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error)
	ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error)
	ListPendingKYC(ctx context.Context) ([]*models.KYCSubmission, error)
	ReviewWithdrawal(ctx context.Context, id int, approve bool, reviewer string) (string, error)
	ReviewDeposit(ctx context.Context, id int, approve bool, reviewer string) (string, error)
	ReviewKYC(ctx context.Context, id int, approve bool, reviewer string) (string, error)
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
}

// Cache описывает инвалидацию кешированных пользовательских записей.
type Cache interface {
	Invalidate(key string) error
}

// AdminService отвечает за рассмотрение заявок администраторами.
type AdminService struct {
	repo  AdminRepository
	cache Cache
	log   *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(repo AdminRepository, cache Cache, log *slog.Logger) *AdminService {
	return &AdminService{repo: repo, cache: cache, log: log}
}

// ListPendingWithdrawals возвращает очередь заявок на вывод.
func (s *AdminService) ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	return s.repo.ListPendingWithdrawals(ctx)
}

// ListPendingDeposits возвращает очередь заявок на пополнение.
func (s *AdminService) ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error) {
	return s.repo.ListPendingDeposits(ctx)
}

// ListPendingKYC возвращает очередь заявок на верификацию.
func (s *AdminService) ListPendingKYC(ctx context.Context) ([]*models.KYCSubmission, error) {
	return s.repo.ListPendingKYC(ctx)
}

func decisionWord(approve bool) string {
	if approve {
		return "approved"
	}
	return "rejected"
}

// notifyOwner создает уведомление владельцу рассмотренной заявки.
// Сбой уведомления не отменяет само решение.
func (s *AdminService) notifyOwner(ctx context.Context, userUID, kind, title, body string) {
	_, err := s.repo.CreateNotification(ctx, models.Notification{
		UserUID: userUID,
		Kind:    kind,
		Title:   title,
		Body:    body,
	})
	if err != nil {
		s.log.Error("failed to notify request owner", sl.Err(err))
	}
}

// ReviewWithdrawal выносит решение по заявке на вывод. Отклонение
// возвращает заблокированную сумму на баланс владельца.
func (s *AdminService) ReviewWithdrawal(ctx context.Context, id int, approve bool, reviewer string) error {
	userUID, err := s.repo.ReviewWithdrawal(ctx, id, approve, reviewer)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}

	s.notifyOwner(ctx, userUID, "withdrawal_reviewed", "Withdrawal "+decisionWord(approve),
		fmt.Sprintf("Your withdrawal request #%d was %s.", id, decisionWord(approve)))
	if err := s.cache.Invalidate("user:" + userUID); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return nil
}

// ReviewDeposit выносит решение по заявке на пополнение. Подтверждение
// зачисляет сумму на баланс владельца.
func (s *AdminService) ReviewDeposit(ctx context.Context, id int, approve bool, reviewer string) error {
	userUID, err := s.repo.ReviewDeposit(ctx, id, approve, reviewer)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}

	s.notifyOwner(ctx, userUID, "deposit_reviewed", "Deposit "+decisionWord(approve),
		fmt.Sprintf("Your deposit request #%d was %s.", id, decisionWord(approve)))
	if err := s.cache.Invalidate("user:" + userUID); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return nil
}

// ReviewKYC выносит решение по заявке на верификацию и обновляет
// статус KYC владельца.
func (s *AdminService) ReviewKYC(ctx context.Context, id int, approve bool, reviewer string) error {
	userUID, err := s.repo.ReviewKYC(ctx, id, approve, reviewer)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return err
	}

	s.notifyOwner(ctx, userUID, "kyc_reviewed", "Verification "+decisionWord(approve),
		fmt.Sprintf("Your identity verification was %s.", decisionWord(approve)))
	if err := s.cache.Invalidate("user:" + userUID); err != nil {
		s.log.Warn("failed to invalidate user cache", sl.Err(err))
	}
	return nil
}
