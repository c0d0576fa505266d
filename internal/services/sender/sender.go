// Package services содержит сервис отправки одноразовых кодов по электронной почте.
//
// Отправка синхронная: если письмо с кодом не ушло, запрос на шаг OTP
// завершается ошибкой и код считается недоставленным.
package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/subscription-manager/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-manager/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-manager/internal/models"
)

// SenderService отправляет письма с одноразовыми кодами через SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendOTP отправляет код подтверждения на указанный адрес.
// Текст письма зависит от типа операции.
func (s *SenderService) SendOTP(email, code, otpType string) error {
	var subject, bodyText string
	switch otpType {
	case models.OTPTypeEmailUpdate:
		subject = "Email Update OTP - Subscription Manager"
		bodyText = fmt.Sprintf("Your OTP for email update is: %s\n\nThis code will expire in 10 minutes.\nIf you didn't request this, please ignore this email.", code)
	default:
		subject = "Password Reset OTP - Subscription Manager"
		bodyText = fmt.Sprintf("Your OTP for password reset is: %s\n\nThis code will expire in 10 minutes.\nIf you didn't request this, please ignore this email.", code)
	}

	return s.sendEmail([]string{email}, subject, bodyText)
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
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message body", sl.Err(err))
		return err
	}
	if err := wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	return client.Quit()
}
