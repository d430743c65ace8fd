package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Consumer reacts to envelopes whose routing key matches one of its patterns.
// Patterns use topic exchange syntax: "*" matches one word, "#" zero or more.
type Consumer interface {
	Name() string
	Patterns() []string
	Handle(ctx context.Context, env *Envelope) error
}

type subscription struct {
	pattern  string
	consumer Consumer
}

// ConsumerRegistry routes envelopes to consumers.
type ConsumerRegistry struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        *slog.Logger
}

// NewConsumerRegistry creates an empty registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{logger: logger}
}

// Register subscribes consumer to each of its patterns.
func (r *ConsumerRegistry) Register(consumer Consumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pattern := range consumer.Patterns() {
		r.subscriptions = append(r.subscriptions, subscription{pattern: pattern, consumer: consumer})
		r.logger.Debug("registered consumer",
			"consumer", consumer.Name(),
			"pattern", pattern,
		)
	}
}

// ConsumersFor returns the consumers interested in routingKey, each at most once.
func (r *ConsumerRegistry) ConsumersFor(routingKey string) []Consumer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Consumer
	seen := make(map[Consumer]struct{})
	for _, sub := range r.subscriptions {
		if !MatchRoutingKey(sub.pattern, routingKey) {
			continue
		}
		if _, dup := seen[sub.consumer]; dup {
			continue
		}
		seen[sub.consumer] = struct{}{}
		matched = append(matched, sub.consumer)
	}
	return matched
}

// Len returns the number of subscriptions.
func (r *ConsumerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscriptions)
}

// Dispatch delivers env to every matching consumer. All consumers run even
// when one fails; the failures are joined.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, env *Envelope) error {
	var errs []error
	for _, c := range r.ConsumersFor(env.RoutingKey) {
		if err := c.Handle(ctx, env); err != nil {
			r.logger.ErrorContext(ctx, "consumer failed",
				"consumer", c.Name(),
				"routing_key", env.RoutingKey,
				"event_id", env.EventID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// MatchRoutingKey reports whether key matches a topic pattern.
func MatchRoutingKey(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || pattern[0] != key[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
