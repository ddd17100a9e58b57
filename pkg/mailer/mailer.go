package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/adbroadcast/website-backend/pkg/config"
	"github.com/adbroadcast/website-backend/pkg/logger"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a message through some transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ErrInvalidMessage marks messages rejected before reaching the transport.
var ErrInvalidMessage = errors.New("invalid email message")

// Validate checks the envelope fields every transport needs.
func (m Message) Validate() error {
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("%w: from %q: %v", ErrInvalidMessage, m.From, err)
	}
	if _, err := mail.ParseAddress(m.To); err != nil {
		return fmt.Errorf("%w: to %q: %v", ErrInvalidMessage, m.To, err)
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("%w: subject contains line breaks", ErrInvalidMessage)
	}
	return nil
}

// Lines joins body lines with CRLF.
func Lines(lines ...string) string {
	return strings.Join(lines, "\r\n")
}

// New builds the sender selected by cfg.Provider.
func New(cfg config.MailConfig, logg *logger.Logger) (Sender, error) {
	switch cfg.NormalizedProvider() {
	case config.MailProviderSMTP:
		return NewSMTPSender(cfg), nil
	case config.MailProviderResend:
		return NewResendSender(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.SendTimeout)
	case config.MailProviderLog:
		return NewLogSender(logg), nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}
