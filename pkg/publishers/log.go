package publishers

import (
	"context"
	"fmt"
)

// logPublisher writes the parsed response to the application log (stdout).
type logPublisher struct {
	id  string
	typ string
	log Logger
}

func newLogPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	return &logPublisher{id: cfg.ID, typ: TypeLog, log: ensureLogger(log)}, nil
}

func (l *logPublisher) ID() string   { return l.id }
func (l *logPublisher) Type() string { return l.typ }

// Publish logs the parsed JSON body under the "response" key.
func (l *logPublisher) Publish(_ context.Context, evt Event) error {
	var value any = evt.Parsed
	if value == nil && len(evt.Response) > 0 {
		value = evt.Response
	}
	l.log.InfoObj(fmt.Sprintf("%s response", evt.Operation), "response", value)
	return nil
}
