// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer defines the outbound email boundary.

Delivery is a black-box collaborator: the application only needs a fire-and-forget
Send contract for activation and password-reset links. The default implementation
logs the message instead of sending it, which keeps local development and tests
free of SMTP infrastructure.
*/
package mailer

import (
	"context"
	"log/slog"
)

// Mailer sends a single plain-text message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer is a [Mailer] that writes messages to the structured log.
//
// The token-bearing body is logged at Debug level only, so production log
// pipelines never capture live activation or reset links.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a logging mail stub.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With(slog.String("component", "mailer"))}
}

// Send implements [Mailer].
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "email_stubbed",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	m.logger.DebugContext(ctx, "email_body", slog.String("body", body))
	return nil
}
