// Package notification is the outbound side-effect boundary of the
// workflow. State transitions publish messages here; dispatch is
// best-effort and never blocks or fails the transition that triggered it.
package notification

import "go.uber.org/zap"

// Message is a single outbound notice to one recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier dispatches messages fire-and-forget. Implementations must not
// return errors to callers; failures are logged only.
type Notifier interface {
	Notify(msg Message)
}

// LogNotifier writes messages to the application log instead of sending
// them. Used in development and in tests.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(msg Message) {
	n.log.Info("notification (not sent)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
}
