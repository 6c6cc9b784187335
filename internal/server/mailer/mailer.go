// Package mailer defines the outbound-mail boundary. Actual delivery is an
// external collaborator's concern; the server only hands over a reset link.
package mailer

import (
	"context"

	"github.com/akosenkov/fleetdesk/internal/logging"
)

// Mailer delivers account-recovery mail.
type Mailer interface {
	// SendPasswordReset sends the reset link to the given address.
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer writes the mail to the log instead of sending it. Used in
// development and tests.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.logger.Info(ctx, "password reset mail", "email", email, "link", link)
	return nil
}
