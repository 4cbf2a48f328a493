package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// CreditUser начисляет сумму на баланс и в заработанное за все время,
// добавляя запись в журнал активности в той же транзакции.
func (s *Storage) CreditUser(ctx context.Context, userUID string, amount float64, activityType, note string) error {
	const op = "storage.CreditUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET balance = balance + $1, total_earned = total_earned + $1
			 WHERE uid = $2`, amount, userUID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO activity_log (user_uid, type, amount, note)
			 VALUES ($1, $2, $3, $4)`,
			userUID, activityType, amount, note)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HasDailyClaim проверяет, забирал ли пользователь ежедневную VIP-награду сегодня.
func (s *Storage) HasDailyClaim(ctx context.Context, userUID string) (bool, error) {
	const op = "storage.HasDailyClaim"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM activity_log
				  WHERE user_uid = $1 AND type = $2 AND created_at::DATE = CURRENT_DATE)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, models.ActivityDailyReward).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateWithdrawalRequest блокирует сумму на балансе и создает заявку
// на вывод. При нехватке средств ничего не меняется.
func (s *Storage) CreateWithdrawalRequest(ctx context.Context, userUID string, amount float64, address string) (int, error) {
	const op = "storage.CreateWithdrawalRequest"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET balance = balance - $1 WHERE uid = $2 AND balance >= $1`,
			amount, userUID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrInsufficientFunds
		}
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO withdrawal_requests (user_uid, amount, address)
			 VALUES ($1, $2, $3) RETURNING id`,
			userUID, amount, address).Scan(&newID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO activity_log (user_uid, type, amount, note)
			 VALUES ($1, $2, $3, $4)`,
			userUID, models.ActivityWithdrawal, amount, "withdrawal requested")
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateDepositRequest создает заявку на пополнение по хэшу транзакции.
// Баланс пополняется только после подтверждения администратором.
func (s *Storage) CreateDepositRequest(ctx context.Context, userUID string, amount float64, txHash string) (int, error) {
	const op = "storage.CreateDepositRequest"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO deposit_requests (user_uid, amount, tx_hash)
		 VALUES ($1, $2, $3) RETURNING id`,
		userUID, amount, txHash).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPendingWithdrawals возвращает нерассмотренные заявки на вывод.
func (s *Storage) ListPendingWithdrawals(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	const op = "storage.ListPendingWithdrawals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT w.id, w.user_uid, u.username, w.amount, w.address, w.status, w.created_at
			  FROM withdrawal_requests w
			  JOIN users u ON w.user_uid = u.uid
			  WHERE w.status = $1
			  ORDER BY w.id`
	rows, err := s.DB.QueryContext(ctx, query, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.WithdrawalRequest
	for rows.Next() {
		var item models.WithdrawalRequest
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Username, &item.Amount,
			&item.Address, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPendingDeposits возвращает нерассмотренные заявки на пополнение.
func (s *Storage) ListPendingDeposits(ctx context.Context) ([]*models.DepositRequest, error) {
	const op = "storage.ListPendingDeposits"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT d.id, d.user_uid, u.username, d.amount, d.tx_hash, d.status, d.created_at
			  FROM deposit_requests d
			  JOIN users u ON d.user_uid = u.uid
			  WHERE d.status = $1
			  ORDER BY d.id`
	rows, err := s.DB.QueryContext(ctx, query, models.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DepositRequest
	for rows.Next() {
		var item models.DepositRequest
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Username, &item.Amount,
			&item.TxHash, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReviewWithdrawal фиксирует решение по заявке на вывод. Отклонение
// возвращает заблокированную сумму на баланс. Возвращает uid владельца заявки.
func (s *Storage) ReviewWithdrawal(ctx context.Context, id int, approve bool, reviewer string) (string, error) {
	const op = "storage.ReviewWithdrawal"
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
	var amount float64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`UPDATE withdrawal_requests
			 SET status = $1, reviewed_by = $2, reviewed_at = NOW()
			 WHERE id = $3 AND status = $4
			 RETURNING user_uid, amount`,
			status, reviewer, id, models.RequestPending).Scan(&userUID, &amount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !approve {
			// возврат заблокированной суммы
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET balance = balance + $1 WHERE uid = $2`, amount, userUID)
			return err
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}

// ReviewDeposit фиксирует решение по заявке на пополнение. Подтверждение
// зачисляет сумму на баланс и пишет запись в журнал активности.
func (s *Storage) ReviewDeposit(ctx context.Context, id int, approve bool, reviewer string) (string, error) {
	const op = "storage.ReviewDeposit"
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
	var amount float64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`UPDATE deposit_requests
			 SET status = $1, reviewed_by = $2, reviewed_at = NOW()
			 WHERE id = $3 AND status = $4
			 RETURNING user_uid, amount`,
			status, reviewer, id, models.RequestPending).Scan(&userUID, &amount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if approve {
			if _, err = tx.ExecContext(ctx,
				`UPDATE users SET balance = balance + $1 WHERE uid = $2`, amount, userUID); err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO activity_log (user_uid, type, amount, note)
				 VALUES ($1, $2, $3, $4)`,
				userUID, models.ActivityDeposit, amount, "deposit approved")
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return userUID, nil
}
