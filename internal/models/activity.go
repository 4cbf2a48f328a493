package models

import "time"

// Типы записей журнала активности.
const (
	ActivityAd          = "ad"
	ActivityReferral    = "referral"
	ActivityWithdrawal  = "withdrawal"
	ActivityDeposit     = "deposit"
	ActivityVIP         = "vip"
	ActivityDailyReward = "daily_reward"
)

// ActivityRecord одна запись журнала активности пользователя.
// Журнал только пополняется, записи не изменяются.
type ActivityRecord struct {
	ID        int
	UserUID   string
	Type      string
	Amount    float64
	Note      string
	CreatedAt time.Time
}

// Notification уведомление пользователя. Жизненный цикл ограничен
// флагом прочтения.
type Notification struct {
	ID        int
	UserUID   string
	Kind      string // subscription_expiring, withdrawal_reviewed, deposit_reviewed, kyc_reviewed
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}

// ExpiryNotice сообщение для брокера о подписке, истекающей завтра.
type ExpiryNotice struct {
	Email    string    `json:"email"`
	Username string    `json:"username"`
	UserUID  string    `json:"user_uid"`
	Type     string    `json:"type"`
	EndDate  time.Time `json:"end_date"`
}
