// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package mailer delivers invite and notification e-mails.

SMTP connects to a relay with one of three modes: NONE (plain), STARTTLS
(upgrade when the server offers it) or SSL (implicit TLS). When no SMTP
host is configured the server uses LogMailer, which only logs.

Delivery never fails the caller: Deliver returns false and the reason is
logged.

	m := mailer.NewSMTP(mailer.Config{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	ok := m.Deliver(ctx, mailer.Message{To: []string{"a@example.com"}, Subject: "Hi", Body: "..."})
*/
package mailer
