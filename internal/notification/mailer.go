package notification

import (
	"context"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// MailgunNotifier delivers messages over mailgun. Each message is sent in
// its own goroutine; there is no retry queue.
type MailgunNotifier struct {
	mg     mailgun.Mailgun
	sender string
	log    *zap.Logger
}

// NewMailer builds a Notifier for the given transport settings. With no API
// key configured it degrades to log-only dispatch.
func NewMailer(domain, apiKey, sender string, log *zap.Logger) Notifier {
	if apiKey == "" {
		log.Info("mailgun not configured, notifications will be logged only")
		return NewLogNotifier(log)
	}
	return &MailgunNotifier{
		mg:     mailgun.NewMailgun(domain, apiKey),
		sender: sender,
		log:    log,
	}
}

func (n *MailgunNotifier) Notify(msg Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		m := n.mg.NewMessage(n.sender, msg.Subject, msg.Body, msg.To)
		if _, _, err := n.mg.Send(ctx, m); err != nil {
			n.log.Error("failed to send notification",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err),
			)
		}
	}()
}
