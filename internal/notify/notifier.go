package notify

import "log"

// Notifier is the sink for user-visible messages. Implementations may
// push, mail or just log; senders never depend on delivery succeeding.
type Notifier interface {
	Notify(subject, message string) error
}

// ConsoleNotifier logs to stdout. Default sink for dev and tests.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Notify(subject, message string) error {
	log.Printf("[notify] %s :: %s\n", subject, message)
	return nil
}
