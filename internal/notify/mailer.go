package notify

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes mails to the structured log instead of a mail server.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "mail sent",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Text(),
	)
	return nil
}
