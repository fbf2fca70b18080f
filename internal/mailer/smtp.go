package mailer

import (
	"fmt"
	"net/smtp"

	"bidmarket/config"
)

// SMTPMailer sends plain-text mail over SMTP with STARTTLS.
type SMTPMailer struct {
	host string
	port int
	user string
	auth smtp.Auth
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.Host,
		port: cfg.Port,
		user: cfg.User,
		auth: smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: \"Bidding System\" <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.user, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, m.auth, m.user, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
