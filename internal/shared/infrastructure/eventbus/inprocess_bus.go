package eventbus

import (
	"context"
	"log/slog"
	"time"
)

// InProcessBus is a Publisher that dispatches synchronously to registered
// consumers. It replaces the broker in local mode.
type InProcessBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
}

// NewInProcessBus creates a bus with an empty registry.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// Subscribe registers consumer on the bus.
func (b *InProcessBus) Subscribe(consumer Consumer) {
	b.registry.Register(consumer)
}

// Registry exposes the underlying consumer registry.
func (b *InProcessBus) Registry() *ConsumerRegistry {
	return b.registry
}

// Publish decodes body and dispatches it. Undecodable bodies and consumer
// failures are logged and swallowed so a local consumer can never block
// the outbox.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, body []byte) error {
	env, err := DecodeEnvelope(body)
	if err != nil {
		b.logger.ErrorContext(ctx, "dropping undecodable event",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if env.RoutingKey == "" {
		env.RoutingKey = routingKey
	}

	start := time.Now()
	if err := b.registry.Dispatch(ctx, env); err != nil {
		b.logger.ErrorContext(ctx, "event dispatch failed",
			"routing_key", env.RoutingKey,
			"event_id", env.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}

	b.logger.DebugContext(ctx, "event dispatched",
		"routing_key", env.RoutingKey,
		"event_id", env.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (b *InProcessBus) Close() error { return nil }
