// Package services содержит обработку сообщений брокера об истекающих
// подписках: запись уведомления пользователю и отправка письма.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/sl"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/lib/smtp"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
)

// NotificationRepository описывает запись уведомлений в базу.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
}

// SenderService разбирает сообщения брокера и доставляет уведомления
// в базу и на почту.
type SenderService struct {
	transport smtp.TransportInterface
	repo      NotificationRepository
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, repo NotificationRepository, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		repo:      repo,
		log:       log,
	}
}

// SendExpiryNotice обрабатывает одно сообщение об истекающей подписке:
// создает внутрисистемное уведомление и отправляет письмо.
func (s *SenderService) SendExpiryNotice(body []byte) error {
	var message models.ExpiryNotice
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	notification := models.Notification{
		UserUID: message.UserUID,
		Kind:    "subscription_expiring",
		Title:   "Subscription expiring soon",
		Body: fmt.Sprintf("Your %s subscription expires on %s. Renew it to keep your benefits.",
			message.Type, message.EndDate.Format("2006-01-02")),
	}
	if _, err := s.repo.CreateNotification(context.Background(), notification); err != nil {
		s.log.Error("failed to store notification", sl.Err(err))
		return err
	}

	subject := "Your subscription expires tomorrow"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour %s subscription expires on %s.\nRenew it in advance to keep earning.",
		message.Username, message.Type, message.EndDate.Format("2006-01-02"))
	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
