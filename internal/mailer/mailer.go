// Package mailer sends plain SMTP mail, used for support query acknowledgements.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds SMTP server credentials and the sender address.
type SMTPConfig struct {
	Host   string
	Port   string
	User   string
	Pass   string
	Sender string
}

// SMTPMailer sends mail through an authenticated SMTP server.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail}
}

// Send validates msg and delivers it. The body is sent as HTML when it looks like HTML.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if msg.Subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}
	if m.cfg.User == "" || m.cfg.Pass == "" {
		return fmt.Errorf("SMTP username and password must be provided")
	}

	raw := Build(m.cfg.Sender, msg)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := m.send(net.JoinHostPort(m.cfg.Host, m.cfg.Port), auth, m.cfg.Sender, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Build renders msg with headers.
func Build(sender string, msg Message) []byte {
	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(msg.Body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", msg.To, sender, msg.Subject, contentType, msg.Body))
}
