package messagequeue

import "context"

// Publisher publishes messages to a named queue.
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	Close() error
}

// NopPublisher drops every message. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
