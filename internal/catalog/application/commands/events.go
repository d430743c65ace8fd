package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// saveProduct persists product and queues its pending events in the outbox.
// Both writes use ctx, so inside a unit of work they commit together.
func saveProduct(
	ctx context.Context,
	repo domain.Repository,
	outboxRepo outbox.Repository,
	product *domain.Product,
	ownerID uuid.UUID,
) error {
	if err := repo.Save(ctx, product); err != nil {
		return err
	}

	events := product.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, ownerID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.Save(ctx, msgs...); err != nil {
		return err
	}

	product.ClearDomainEvents()
	return nil
}

// ensureTitleAvailable fails with ErrDuplicateTitle when another product of
// ownerID already uses title.
func ensureTitleAvailable(ctx context.Context, repo domain.Repository, ownerID, productID uuid.UUID, title domain.Title) error {
	existing, err := repo.FindByTitle(ctx, ownerID, title)
	switch {
	case err == nil && existing.ID() != productID:
		return domain.ErrDuplicateTitle
	case err == nil, errors.Is(err, domain.ErrProductNotFound):
		return nil
	default:
		return err
	}
}
