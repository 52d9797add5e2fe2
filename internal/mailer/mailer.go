// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends transactional notification email through an SMTP
// relay. Callers decide whether a failed send fails the enclosing request;
// the contact-form alert is fire-and-forget while the subscription
// thank-you is synchronous.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templates embed.FS

// ErrNotConfigured is returned when no mail relay is configured.
var ErrNotConfigured = errors.New("mailer: no SMTP relay configured")

// SubscribeThankYouSubject is the subject line of the subscription
// confirmation email.
const SubscribeThankYouSubject = "Thank You for Subscribing!"

// Sender is the notification contract used by handlers.
type Sender interface {
	// Send delivers a plain-text message.
	Send(ctx context.Context, to, subject, body string) error
	// SendSubscribeThankYou renders and delivers the subscription
	// thank-you email with the subscriber's name substituted.
	SendSubscribeThankYou(ctx context.Context, to, name string) error
}

// Config holds SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends email through an SMTP relay using go-mail.
type Mailer struct {
	client *mail.Client
	from   string
	tmpl   *template.Template
}

// New creates a Mailer. Returns ErrNotConfigured if cfg.Host is empty.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, ErrNotConfigured
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing email templates: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &Mailer{client: client, from: from, tmpl: tmpl}, nil
}

// Send delivers a plain-text message through the relay.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// SendSubscribeThankYou renders the thank-you template and delivers it as HTML.
func (m *Mailer) SendSubscribeThankYou(ctx context.Context, to, name string) error {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, "subscribe_thankyou.html", struct{ Name string }{Name: name}); err != nil {
		return fmt.Errorf("rendering thank-you email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(SubscribeThankYouSubject)
	msg.SetBodyString(mail.TypeTextHTML, buf.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending thank-you mail to %s: %w", to, err)
	}
	return nil
}

// Disabled is a Sender used when no relay is configured: every send fails
// with ErrNotConfigured so call sites log and apply their own policy.
type Disabled struct{}

// Send implements Sender.
func (Disabled) Send(ctx context.Context, to, subject, body string) error {
	return ErrNotConfigured
}

// SendSubscribeThankYou implements Sender.
func (Disabled) SendSubscribeThankYou(ctx context.Context, to, name string) error {
	return ErrNotConfigured
}
