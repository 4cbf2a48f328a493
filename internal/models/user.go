// Package models содержит доменные структуры платформы: пользователей,
// подписки, сессии устройств и записи журналов. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя платформы.
type User struct {
	UUID                string     // Уникальный идентификатор пользователя
	Email               string     // Электронная почта (уникальная)
	Username            string     // Имя пользователя (уникальное)
	PasswordHash        string     // Хэш пароля пользователя
	Role                string     // Роль пользователя, admin или user
	Balance             float64    // Текущий баланс кошелька в USDT
	TotalEarned         float64    // Заработано за все время
	ReferralCode        string     // Реферальный код для атрибуции регистраций
	ReferredBy          *string    // Username пригласившего (nil, если регистрация без реферала)
	VIPTier             int        // Уровень VIP, 0 (нет) — 7
	VIPStartedAt        *time.Time // Дата активации VIP
	IsSubscribed        bool       // Есть ли активная подписка
	KYCStatus           string     // Статус верификации: none, pending, approved, rejected
	DeletionRequestedAt *time.Time // Дата запроса удаления аккаунта (grace period)
	CreatedAt           time.Time
}

// ReferralRecord фиксирует одного приглашенного пользователя
// и сумму, заработанную с его активности.
type ReferralRecord struct {
	ID               int
	ReferrerUID      string
	ReferredUsername string
	Earned           float64
	CreatedAt        time.Time
}
