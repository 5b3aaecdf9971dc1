// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// Notifier delivers out-of-band account messages (verification and password
// reset links).
//
// # Failure Semantics
//
// A failed notification send during registration does not fail the
// registration itself — the caller logs and continues. Password reset is the
// exception: if the email cannot be sent the token is useless, so the flow
// surfaces the error.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// LogNotifier is a [Notifier] that writes the message to the structured log
// instead of an SMTP relay. It is the default wiring for development and CI
// environments without mail credentials.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed [Notifier].
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendVerificationEmail logs the verification token for the given address.
func (n *LogNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	n.logger.InfoContext(ctx, "verification_email_dispatched",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}

// SendPasswordResetEmail logs the reset token for the given address.
func (n *LogNotifier) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	n.logger.InfoContext(ctx, "password_reset_email_dispatched",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}
