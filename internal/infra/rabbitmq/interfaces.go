package rabbitmq

import "context"

// EventPublisher emits order events; pattern is the routing key and the
// envelope pattern consumers match on.
type EventPublisher interface {
	Publish(ctx context.Context, pattern string, data any) error
}

var _ EventPublisher = (*Publisher)(nil)
