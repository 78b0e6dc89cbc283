package publishers

import "context"

// Publisher sends events to a downstream sink (console, SQS, HTTP, etc).
// Publishers holding connections also implement io.Closer.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}
