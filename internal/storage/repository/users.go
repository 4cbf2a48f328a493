package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

const userColumns = `uid, email, username, password_hash, role, balance, total_earned,
	referral_code, referred_by, vip_tier, vip_started_at, is_subscribed, kyc_status,
	deletion_requested_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var referredBy sql.NullString
	var vipStartedAt, deletionRequestedAt sql.NullTime
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.Balance, &u.TotalEarned, &u.ReferralCode, &referredBy, &u.VIPTier,
		&vipStartedAt, &u.IsSubscribed, &u.KYCStatus, &deletionRequestedAt,
		&u.CreatedAt); err != nil {
		return nil, err
	}
	if referredBy.Valid {
		u.ReferredBy = &referredBy.String
	}
	if vipStartedAt.Valid {
		u.VIPStartedAt = &vipStartedAt.Time
	}
	if deletionRequestedAt.Valid {
		u.DeletionRequestedAt = &deletionRequestedAt.Time
	}
	return u, nil
}

// UserExists проверяет, занят ли email или username.
func (s *Storage) UserExists(ctx context.Context, username, email string) (bool, error) {
	const op = "storage.UserExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// RegisterUser сохраняет нового пользователя и — если указан реферер —
// в той же транзакции добавляет реферальную запись, начисляет бонус
// и пишет запись в журнал активности реферера.
func (s *Storage) RegisterUser(ctx context.Context, user models.User, referrerUID string, bonus float64) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO users (email, username, password_hash, role, referral_code, referred_by)
				  VALUES ($1, $2, $3, $4, $5, $6)
				  RETURNING uid`
		if err := tx.QueryRowContext(ctx, query,
			user.Email, user.Username, user.PasswordHash, user.Role,
			user.ReferralCode, user.ReferredBy).Scan(&newID); err != nil {
			return err
		}
		if referrerUID == "" {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO referrals (referrer_uid, referred_username, earned)
			 VALUES ($1, $2, $3)`,
			referrerUID, user.Username, bonus); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET balance = balance + $1, total_earned = total_earned + $1
			 WHERE uid = $2`,
			bonus, referrerUID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO activity_log (user_uid, type, amount, note)
			 VALUES ($1, $2, $3, $4)`,
			referrerUID, models.ActivityReferral, bonus, "signup bonus for "+user.Username)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByIdentifier возвращает пользователя по username либо email.
func (s *Storage) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	const op = "storage.GetUserByIdentifier"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByReferralCode возвращает пользователя-владельца реферального кода.
func (s *Storage) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	const op = "storage.GetUserByReferralCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListReferrals возвращает реферальные записи пользователя.
func (s *Storage) ListReferrals(ctx context.Context, referrerUID string) ([]*models.ReferralRecord, error) {
	const op = "storage.ListReferrals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, referrer_uid, referred_username, earned, created_at
			  FROM referrals
			  WHERE referrer_uid = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, referrerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ReferralRecord
	for rows.Next() {
		var r models.ReferralRecord
		if err := rows.Scan(&r.ID, &r.ReferrerUID, &r.ReferredUsername, &r.Earned, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AddReferralEarning увеличивает заработанное по реферальной записи.
func (s *Storage) AddReferralEarning(ctx context.Context, referrerUID, referredUsername string, amount float64) error {
	const op = "storage.AddReferralEarning"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`UPDATE referrals SET earned = earned + $1
		 WHERE referrer_uid = $2 AND referred_username = $3`,
		amount, referrerUID, referredUsername)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RequestDeletion помечает аккаунт на удаление. Фактическая чистка
// выполняется планировщиком после окончания grace-периода.
func (s *Storage) RequestDeletion(ctx context.Context, userUID string, at time.Time) error {
	const op = "storage.RequestDeletion"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`UPDATE users SET deletion_requested_at = $1 WHERE uid = $2`, at, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PurgeDeletedUsers удаляет аккаунты, помеченные на удаление раньше before.
// Связанные записи удаляются каскадно.
func (s *Storage) PurgeDeletedUsers(ctx context.Context, before time.Time) (int, error) {
	const op = "storage.PurgeDeletedUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM users WHERE deletion_requested_at IS NOT NULL AND deletion_requested_at < $1`,
		before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
