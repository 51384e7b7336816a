// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Message is a plain-text e-mail.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer attempts delivery and reports whether it succeeded. Failures are
// logged by the implementation, never returned.
type Mailer interface {
	Deliver(ctx context.Context, msg Message) bool
}

// Encryption selects how the SMTP connection is secured.
type Encryption string

const (
	EncNone     Encryption = "NONE"
	EncStartTLS Encryption = "STARTTLS"
	EncSSL      Encryption = "SSL"
)

// ParseEncryption accepts NONE, STARTTLS and SSL (or SSL/TLS). Anything
// else falls back to STARTTLS.
func ParseEncryption(s string) Encryption {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return EncNone
	case "SSL", "SSL/TLS", "TLS":
		return EncSSL
	}
	return EncStartTLS
}

type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	FromName   string
	Encryption Encryption
}

// SMTP delivers mail through a relay.
type SMTP struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTP {
	if cfg.Encryption == "" {
		cfg.Encryption = EncStartTLS
	}
	return &SMTP{cfg: cfg}
}

func (s *SMTP) Deliver(ctx context.Context, msg Message) bool {
	if err := s.Send(ctx, msg); err != nil {
		slog.Warn("mail delivery failed",
			"to", strings.Join(msg.To, ","),
			"subject", msg.Subject,
			"error", err,
		)
		return false
	}
	slog.Info("mail delivered", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
	return true
}

// Send delivers msg and returns the first SMTP error.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	body := buildMessage(s.cfg.FromName, s.cfg.From, msg.To, msg.Subject, msg.Body)
	address := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	d := net.Dialer{Timeout: 15 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			d.Timeout = remaining
		}
	}

	switch s.cfg.Encryption {
	case EncSSL:
		conn, err := tls.DialWithDialer(&d, "tcp", address, &tls.Config{ServerName: s.cfg.Host})
		if err != nil {
			return fmt.Errorf("mail: tls dial: %w", err)
		}
		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("mail: new client: %w", err)
		}
		return s.transmit(c, auth, msg.To, body)

	case EncStartTLS:
		conn, err := d.DialContext(ctx, "tcp", address)
		if err != nil {
			return fmt.Errorf("mail: dial: %w", err)
		}
		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("mail: new client: %w", err)
		}
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
				c.Close()
				return fmt.Errorf("mail: starttls: %w", err)
			}
		}
		return s.transmit(c, auth, msg.To, body)

	case EncNone:
		conn, err := d.DialContext(ctx, "tcp", address)
		if err != nil {
			return fmt.Errorf("mail: dial: %w", err)
		}
		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("mail: new client: %w", err)
		}
		return s.transmit(c, auth, msg.To, body)
	}
	return fmt.Errorf("mail: unknown encryption %q", s.cfg.Encryption)
}

func (s *SMTP) transmit(c *smtp.Client, auth smtp.Auth, to []string, body []byte) error {
	defer c.Close()

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("mail: auth: %w", err)
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(strings.TrimSpace(rcpt)); err != nil {
			return fmt.Errorf("mail: RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		return fmt.Errorf("mail: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close data: %w", err)
	}
	return c.Quit()
}

func buildMessage(fromName, from string, to []string, subject, body string) []byte {
	var b bytes.Buffer

	sender := from
	if fromName != "" {
		sender = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromName), from)
	}
	fmt.Fprintf(&b, "From: %s\r\n", sender)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}

// LogMailer writes messages to the log instead of sending them. Nothing is
// delivered, so it always reports false.
type LogMailer struct{}

func (LogMailer) Deliver(_ context.Context, msg Message) bool {
	slog.Info("mail not sent (no SMTP configured)",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
	)
	return false
}
