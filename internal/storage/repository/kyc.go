package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// CreateKYCSubmission создает заявку на верификацию и переводит статус
// KYC пользователя в pending.
func (s *Storage) CreateKYCSubmission(ctx context.Context, userUID, documentType, documentRef string) (int, error) {
	const op = "storage.CreateKYCSubmission"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO kyc_submissions (user_uid, document_type, document_ref)
			 VALUES ($1, $2, $3) RETURNING id`,
			userUID, documentType, documentRef).Scan(&newID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE users SET kyc_status = $1 WHERE uid = $2`,
			models.RequestPending, userUID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPendingKYC возвращает нерассмотренные заявки на верификацию.
func (s *Storage) ListPendingKYC(ctx context.Context) ([]*models.KYCSubmission, error) {
	const op = "storage.ListPendingKYC"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT k.id, k.user_uid, u.username, k.document_type, k.document_ref,
			      k.status, k.created_at
			  FROM kyc_submissions k
			  JOIN users u ON k.user_uid = u.uid
			  WHERE k.status = $1
			  ORDER BY k.id`
	rows, err := s.DB.QueryContext(ctx, query, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.KYCSubmission
	for rows.Next() {
		var item models.KYCSubmission
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Username, &item.DocumentType,
			&item.DocumentRef, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReviewKYC фиксирует решение по заявке на верификацию и обновляет
// статус KYC пользователя. Возвращает uid владельца заявки.
func (s *Storage) ReviewKYC(ctx context.Context, id int, approve bool, reviewer string) (string, error) {
	const op = "storage.ReviewKYC"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	status := models.RequestRejected
	if approve {
		status = models.RequestApproved
	}

	var userUID string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`UPDATE kyc_submissions
			 SET status = $1, reviewed_by = $2, reviewed_at = NOW()
			 WHERE id = $3 AND status = $4
			 RETURNING user_uid`,
			status, reviewer, id, models.RequestPending).Scan(&userUID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET kyc_status = $1 WHERE uid = $2`, status, userUID)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}
