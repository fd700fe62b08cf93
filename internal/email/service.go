package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Service interface {
	SendCustom(ctx context.Context, to string, subject string, content string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPService sends plain-text mail through gomail.
type SMTPService struct {
	from string
	send func(msgs ...*gomail.Message) error
}

func NewSMTPService(cfg Config) *SMTPService {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPService{from: cfg.From, send: d.DialAndSend}
}

// NewSenderService delivers through an arbitrary gomail.Sender.
func NewSenderService(from string, sender gomail.Sender) *SMTPService {
	return &SMTPService{
		from: from,
		send: func(msgs ...*gomail.Message) error { return gomail.Send(sender, msgs...) },
	}
}

func (s *SMTPService) SendCustom(ctx context.Context, to string, subject string, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", content)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
