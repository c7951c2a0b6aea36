// Package mail delivers account emails.
package mail

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"medistore/internal/domain/service"
)

// logMailer writes outgoing mail to the log. It is the default delivery in
// environments without a mail gateway.
type logMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that logs instead of sending.
func NewLogMailer(logger *slog.Logger) service.Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendVerificationEmail(ctx context.Context, to, name, link string) error {
	m.logger.InfoContext(ctx, "[Mail] Verification email",
		slog.String("to", to),
		slog.String("name", name),
		slog.String("link", link),
	)

	return nil
}

// Module provides the mailer FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewLogMailer),
)
