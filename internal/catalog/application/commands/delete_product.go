package commands

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/catalog/internal/shared/domain"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteProductCommand removes a product permanently.
type DeleteProductCommand struct {
	ProductID uuid.UUID
	OwnerID   uuid.UUID
}

// DeleteProductHandler handles the DeleteProductCommand.
type DeleteProductHandler struct {
	productRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewDeleteProductHandler creates a new DeleteProductHandler.
func NewDeleteProductHandler(productRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteProductHandler {
	return &DeleteProductHandler{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle deletes the product and queues a ProductDeleted event.
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		product, err := h.productRepo.FindByID(txCtx, cmd.ProductID, cmd.OwnerID)
		if err != nil {
			return err
		}
		if err := h.productRepo.Delete(txCtx, product.ID(), cmd.OwnerID); err != nil {
			return err
		}

		event := domain.NewProductDeleted(product)
		event.SetMetadata(sharedApplication.NewEventMetadata(txCtx, cmd.OwnerID))
		msgs, err := outbox.NewMessages([]sharedDomain.DomainEvent{event})
		if err != nil {
			return err
		}
		return h.outboxRepo.Save(txCtx, msgs...)
	})
}
