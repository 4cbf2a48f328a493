package models

import "time"

// Статусы заявок на вывод/пополнение и KYC.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// WithdrawalRequest заявка пользователя на вывод средств.
// Сумма блокируется на балансе до решения администратора.
type WithdrawalRequest struct {
	ID         int
	UserUID    string
	Username   string
	Amount     float64
	Address    string // Адрес кошелька для выплаты
	Status     string
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

// DepositRequest заявка на пополнение: пользователь сообщает хэш
// транзакции, администратор подтверждает зачисление.
type DepositRequest struct {
	ID         int
	UserUID    string
	Username   string
	Amount     float64
	TxHash     string
	Status     string
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

// KYCSubmission заявка на верификацию личности.
type KYCSubmission struct {
	ID           int
	UserUID      string
	Username     string
	DocumentType string // passport, id_card, driver_license
	DocumentRef  string // Ссылка на загруженный документ
	Status       string
	ReviewedBy   *string
	ReviewedAt   *time.Time
	CreatedAt    time.Time
}
