package models

import "time"

// Статусы записей истории подписок.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// Типы подписок.
const (
	SubscriptionTypeVIP     = "vip"
	SubscriptionTypePremium = "premium"
)

// PaymentMethodWallet оплата с баланса кошелька.
const PaymentMethodWallet = "wallet_balance"

// SubscriptionRecord представляет одну запись истории подписок пользователя.
// Запись добавляется при покупке; статус позже меняется на expired или
// cancelled проверкой истечения либо отменой.
type SubscriptionRecord struct {
	ID            int
	UserUID       string
	Type          string    // vip или premium
	Tier          int       // Уровень VIP для записей типа vip, иначе 0
	Amount        float64   // Списанная сумма в USDT
	DurationDays  int       // Длительность подписки в днях
	StartDate     time.Time // Дата начала
	EndDate       time.Time // Дата окончания: StartDate + DurationDays суток
	Status        string    // active, expired, cancelled
	PaymentMethod string
	CreatedAt     time.Time
}

// DummySubscription используется для приёма данных покупки из JSON-запроса,
// прежде чем конвертировать их в SubscriptionRecord.
type DummySubscription struct {
	Type          string `json:"type" validate:"required,oneof=vip premium"`
	Tier          int    `json:"tier" validate:"omitempty,min=1,max=7"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=wallet_balance external"`
}
