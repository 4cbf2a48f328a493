package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// CreateSession добавляет запись сессии устройства и помечает её текущей,
// снимая флаг is_current с остальных сессий пользователя.
func (s *Storage) CreateSession(ctx context.Context, session models.DeviceSession) (int, error) {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE device_sessions SET is_current = false WHERE user_uid = $1`,
			session.UserUID); err != nil {
			return err
		}
		query := `INSERT INTO device_sessions (user_uid, device_type, browser, os, ip,
				      location, is_current)
				  VALUES ($1, $2, $3, $4, $5, $6, true)
				  RETURNING id`
		return tx.QueryRowContext(ctx, query,
			session.UserUID, session.DeviceType, session.Browser, session.OS,
			session.IP, session.Location).Scan(&newID)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListSessions возвращает сессии пользователя, текущая первой.
func (s *Storage) ListSessions(ctx context.Context, userUID string) ([]*models.DeviceSession, error) {
	const op = "storage.ListSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, device_type, browser, os, ip, location,
			      logged_in_at, last_active_at, is_current
			  FROM device_sessions
			  WHERE user_uid = $1
			  ORDER BY is_current DESC, last_active_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.DeviceSession
	for rows.Next() {
		var item models.DeviceSession
		if err := rows.Scan(&item.ID, &item.UserUID, &item.DeviceType, &item.Browser,
			&item.OS, &item.IP, &item.Location, &item.LoggedInAt, &item.LastActiveAt,
			&item.IsCurrent); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TouchSession обновляет время последней активности сессии.
func (s *Storage) TouchSession(ctx context.Context, id int, userUID string) error {
	const op = "storage.TouchSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`UPDATE device_sessions SET last_active_at = NOW() WHERE id = $1 AND user_uid = $2`,
		id, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// TerminateSession удаляет одну сессию пользователя и возвращает
// количество удалённых строк.
func (s *Storage) TerminateSession(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.TerminateSession"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM device_sessions WHERE id = $1 AND user_uid = $2`, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// TerminateOtherSessions удаляет все сессии пользователя, кроме текущей.
func (s *Storage) TerminateOtherSessions(ctx context.Context, userUID string, keepID int) (int, error) {
	const op = "storage.TerminateOtherSessions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM device_sessions WHERE user_uid = $1 AND id <> $2`, userUID, keepID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
