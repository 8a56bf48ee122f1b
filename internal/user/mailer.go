package user

import (
	"fmt"
	"net/smtp"
	"os"
)

// Mailer delivers verification codes. Email is an external concern, so the
// service only sees this interface; tests plug in a recording fake.
type Mailer interface {
	SendVerificationCode(to, code string) error
}

// SMTPMailer sends through the SMTP relay configured in the environment.
type SMTPMailer struct {
	Host string
	Port string
	From string
	Auth smtp.Auth
}

func NewSMTPMailerFromEnv() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	m := &SMTPMailer{
		Host: host,
		Port: os.Getenv("SMTP_PORT"),
		From: os.Getenv("SMTP_FROM"),
	}
	if user := os.Getenv("SMTP_USER"); user != "" {
		m.Auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return m
}

func (m *SMTPMailer) SendVerificationCode(to, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Verification Code\r\n\r\nYour verification code is: %s\r\n", m.From, to, code)
	return smtp.SendMail(m.Host+":"+m.Port, m.Auth, m.From, []string{to}, []byte(msg))
}

// LogMailer prints codes to stdout; handy for local runs without a relay.
type LogMailer struct{}

func (LogMailer) SendVerificationCode(to, code string) error {
	fmt.Printf("[MAIL] verification code for %s: %s\n", to, code)
	return nil
}
