package leads

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/adbroadcast/website-backend/pkg/config"
	"github.com/adbroadcast/website-backend/pkg/logger"
	"github.com/adbroadcast/website-backend/pkg/mailer"
	"github.com/adbroadcast/website-backend/pkg/metrics"
)

const (
	recipientSupport = "support"
	recipientClient  = "client"
)

type envelope struct {
	recipient string
	msg       mailer.Message
}

// Notifier sends the support and confirmation emails for a stored lead.
// Delivery is attempted once per message and its outcome is only logged
// and counted; callers never see it.
type Notifier struct {
	sender  mailer.Sender
	cfg     config.MailConfig
	logg    *logger.Logger
	metrics *metrics.LeadMetrics
	run     func(func())
}

// NewNotifier builds a notifier that dispatches on a new goroutine.
func NewNotifier(sender mailer.Sender, cfg config.MailConfig, logg *logger.Logger, m *metrics.LeadMetrics) *Notifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Notifier{
		sender:  sender,
		cfg:     cfg,
		logg:    logg,
		metrics: m,
		run:     func(f func()) { go f() },
	}
}

// WithRunner replaces the dispatch function, e.g. to send inline.
func (n *Notifier) WithRunner(run func(func())) *Notifier {
	if run != nil {
		n.run = run
	}
	return n
}

// ShopRequest notifies support and the submitter about a shop request.
func (n *Notifier) ShopRequest(ctx context.Context, id uint64, s Submission) {
	n.dispatch(ctx, "shop", id,
		envelope{recipientSupport, shopSupportEmail(n.cfg, id, s)},
		envelope{recipientClient, shopClientEmail(n.cfg, id, s)},
	)
}

// Contact notifies support and the submitter about a contact message.
func (n *Notifier) Contact(ctx context.Context, id uint64, s Submission, message string) {
	n.dispatch(ctx, "contact", id,
		envelope{recipientSupport, contactSupportEmail(n.cfg, id, s, message)},
		envelope{recipientClient, contactClientEmail(n.cfg, s)},
	)
}

func (n *Notifier) dispatch(ctx context.Context, source string, id uint64, envelopes ...envelope) {
	if n == nil || n.sender == nil {
		return
	}
	ctx = n.logg.WithLead(context.WithoutCancel(ctx), id, source)
	n.run(func() {
		timeout := n.cfg.SendTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		sendCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var errs error
		for _, env := range envelopes {
			err := n.sender.Send(sendCtx, env.msg)
			n.metrics.IncNotification(source, env.recipient, err == nil)
			errs = multierr.Append(errs, err)
		}
		if errs != nil {
			n.logg.WarnErr(ctx, "lead.notification_failed", errs)
			return
		}
		n.logg.Debug(ctx, "lead.notifications_sent")
	})
}
