package subscribers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/eventbus"
)

// ActivitySubscriber writes a structured log line for every product event.
type ActivitySubscriber struct {
	logger *slog.Logger
}

// NewActivitySubscriber creates a new activity subscriber.
func NewActivitySubscriber(logger *slog.Logger) *ActivitySubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivitySubscriber{logger: logger.With("subscriber", "activity")}
}

// Name identifies the subscriber in the consumer registry.
func (s *ActivitySubscriber) Name() string { return "catalog-activity" }

// Patterns returns the routing keys this subscriber handles.
func (s *ActivitySubscriber) Patterns() []string {
	return []string{"catalog.product.*"}
}

// productPayload covers the fields shared by the product events.
type productPayload struct {
	Title         string `json:"title"`
	PreviousTitle string `json:"previous_title"`
	Amount        *int64 `json:"amount"`
	Currency      string `json:"currency"`
}

// Handle logs the event. Undecodable payloads are logged without details.
func (s *ActivitySubscriber) Handle(ctx context.Context, env *eventbus.Envelope) error {
	attrs := []any{
		"routing_key", env.RoutingKey,
		"product_id", env.AggregateID,
		"event_id", env.EventID,
		"occurred_at", env.OccurredAt,
	}

	var payload productPayload
	if err := env.Decode(&payload); err != nil {
		s.logger.WarnContext(ctx, "undecodable product event", append(attrs, "error", err)...)
		return nil
	}

	switch env.RoutingKey {
	case domain.RoutingKeyCreated, domain.RoutingKeyDeleted:
		attrs = append(attrs, "title", payload.Title)
	case domain.RoutingKeyRetitled:
		attrs = append(attrs, "from", payload.PreviousTitle, "to", payload.Title)
	case domain.RoutingKeyRepriced:
		if payload.Amount != nil {
			if price, err := domain.NewPrice(*payload.Amount, payload.Currency); err == nil {
				attrs = append(attrs, "price", price.String())
			}
		}
	}

	s.logger.InfoContext(ctx, "product activity", attrs...)
	return nil
}
