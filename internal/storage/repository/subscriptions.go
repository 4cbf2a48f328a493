package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// PurchaseSubscription списывает стоимость с баланса (при оплате кошельком),
// добавляет запись истории и — для VIP — выставляет уровень пользователя.
// Всё в одной транзакции: при нехватке средств ничего не меняется.
func (s *Storage) PurchaseSubscription(ctx context.Context, rec models.SubscriptionRecord) (int, error) {
	const op = "storage.PurchaseSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if rec.PaymentMethod == models.PaymentMethodWallet {
			result, err := tx.ExecContext(ctx,
				`UPDATE users SET balance = balance - $1 WHERE uid = $2 AND balance >= $1`,
				rec.Amount, rec.UserUID)
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
		}

		query := `INSERT INTO subscriptions (user_uid, type, tier, amount, duration_days,
				      start_date, end_date, status, payment_method)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				  RETURNING id`
		if err := tx.QueryRowContext(ctx, query,
			rec.UserUID, rec.Type, rec.Tier, rec.Amount, rec.DurationDays,
			rec.StartDate, rec.EndDate, rec.Status, rec.PaymentMethod).Scan(&newID); err != nil {
			return err
		}

		if rec.Type == models.SubscriptionTypeVIP {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET vip_tier = $1, vip_started_at = $2, is_subscribed = true
				 WHERE uid = $3`,
				rec.Tier, rec.StartDate, rec.UserUID); err != nil {
				return err
			}
		} else {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET is_subscribed = true WHERE uid = $1`, rec.UserUID); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO activity_log (user_uid, type, amount, note)
			 VALUES ($1, $2, $3, $4)`,
			rec.UserUID, models.ActivityVIP, rec.Amount, rec.Type+" subscription purchased")
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// HasActiveSubscription проверяет наличие действующей записи заданного типа.
func (s *Storage) HasActiveSubscription(ctx context.Context, userUID, subType string) (bool, error) {
	const op = "storage.HasActiveSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM subscriptions
				  WHERE user_uid = $1 AND type = $2 AND status = $3 AND end_date > NOW())`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, subType, models.SubscriptionActive).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListSubscriptions возвращает историю подписок пользователя, новые сверху.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.SubscriptionRecord, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, type, tier, amount, duration_days, start_date,
			      end_date, status, payment_method, created_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionRecord
	for rows.Next() {
		var item models.SubscriptionRecord
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Type, &item.Tier, &item.Amount,
			&item.DurationDays, &item.StartDate, &item.EndDate, &item.Status,
			&item.PaymentMethod, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CancelActiveSubscriptions переводит действующие записи пользователя
// в статус cancelled и сбрасывает флаги на пользователе. Записи со статусом
// active, но уже прошедшей датой окончания (до которых ещё не дошла
// периодическая чистка), в той же транзакции переводятся в expired: после
// успешной отмены активных записей у пользователя не остаётся. Возвращает
// количество отменённых записей; 0 означает, что действующей подписки не было.
func (s *Storage) CancelActiveSubscriptions(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CancelActiveSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var cancelled int
	var hadVIP bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`UPDATE subscriptions SET status = $1
			 WHERE user_uid = $2 AND status = $3 AND end_date > NOW()
			 RETURNING type`,
			models.SubscriptionCancelled, userUID, models.SubscriptionActive)
		if err != nil {
			return err
		}
		for rows.Next() {
			var subType string
			if err := rows.Scan(&subType); err != nil {
				_ = rows.Close()
				return err
			}
			cancelled++
			if subType == models.SubscriptionTypeVIP {
				hadVIP = true
			}
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if cancelled == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE subscriptions SET status = $1
			 WHERE user_uid = $2 AND status = $3`,
			models.SubscriptionExpired, userUID, models.SubscriptionActive); err != nil {
			return err
		}

		if hadVIP {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET is_subscribed = false, vip_tier = 0, vip_started_at = NULL
				 WHERE uid = $1`, userUID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET is_subscribed = false WHERE uid = $1`, userUID)
		}
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return cancelled, nil
}

// ExpireSubscriptions переводит записи с прошедшей датой окончания из active
// в expired и сбрасывает флаги затронутых пользователей. Возвращает
// количество записей, переведённых в expired.
func (s *Storage) ExpireSubscriptions(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.ExpireSubscriptions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var expired int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE subscriptions SET status = $1
			 WHERE status = $2 AND end_date < $3`,
			models.SubscriptionExpired, models.SubscriptionActive, now)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		expired = int(affected)
		if expired == 0 {
			return nil
		}

		// Флаги сбрасываются только тем, у кого не осталось действующих записей
		_, err = tx.ExecContext(ctx,
			`UPDATE users u SET is_subscribed = false, vip_tier = 0, vip_started_at = NULL
			 WHERE u.is_subscribed = true
			   AND NOT EXISTS (
			       SELECT 1 FROM subscriptions s
			       WHERE s.user_uid = u.uid AND s.status = $1 AND s.end_date >= $2)`,
			models.SubscriptionActive, now)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return expired, nil
}

// FindSubscriptionsExpiringTomorrow находит подписки, истекающие завтра.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.ExpiryNotice, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, u.uid, s.type, s.end_date
			  FROM subscriptions s
			  JOIN users u ON s.user_uid = u.uid
			  WHERE s.status = $1
			    AND s.end_date::DATE = CURRENT_DATE + INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query, models.SubscriptionActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiryNotice
	for rows.Next() {
		var n models.ExpiryNotice
		if err := rows.Scan(&n.Email, &n.Username, &n.UserUID, &n.Type, &n.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
