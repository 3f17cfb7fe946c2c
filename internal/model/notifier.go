package model

import "context"

// Notifier delivers a message to a recipient. Delivery is best-effort:
// callers treat failures as observability events, not business failures.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
