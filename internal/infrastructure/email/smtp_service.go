package email

import (
	"context"
	"fmt"
	"net/smtp"

	"cardfolio-backend/internal/config"
	"cardfolio-backend/pkg/logger"
)

// StatusChangeData carries what the owner needs to know about a card-request
// status change.
type StatusChangeData struct {
	Email     string
	CardName  string
	NewStatus string
	Note      string
}

type EmailService interface {
	SendStatusChangeEmail(ctx context.Context, data StatusChangeData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
}

func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	return &smtpEmailService{
		smtpAddr: cfg.Host + ":" + cfg.Port,
		smtpFrom: cfg.From,
	}
}

func (s *smtpEmailService) SendStatusChangeEmail(ctx context.Context, data StatusChangeData) error {
	subject := fmt.Sprintf("Your card %q is now %s", data.CardName, data.NewStatus)
	body := fmt.Sprintf(`Hi,

The status of your card request %q changed to: %s.`, data.CardName, data.NewStatus)
	if data.Note != "" {
		body += fmt.Sprintf(`

Note from our illustrators:
%s`, data.Note)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{data.Email}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        data.Email,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
