package mailer

import (
	"context"

	"github.com/adbroadcast/website-backend/pkg/logger"
)

// LogSender writes messages to the structured log instead of delivering
// them. Used in development when no mail transport is configured.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"mail_from":    msg.From,
		"mail_to":      msg.To,
		"mail_subject": msg.Subject,
		"mail_bytes":   len(msg.Body),
	})
	s.logg.Info(ctx, "mail.logged")
	return nil
}
