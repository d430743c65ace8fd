package commands

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DiscontinueProductCommand withdraws a product from sale.
type DiscontinueProductCommand struct {
	ProductID uuid.UUID
	OwnerID   uuid.UUID
}

// DiscontinueProductHandler handles the DiscontinueProductCommand.
type DiscontinueProductHandler struct {
	productRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewDiscontinueProductHandler creates a new DiscontinueProductHandler.
func NewDiscontinueProductHandler(productRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DiscontinueProductHandler {
	return &DiscontinueProductHandler{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the DiscontinueProductCommand.
func (h *DiscontinueProductHandler) Handle(ctx context.Context, cmd DiscontinueProductCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		product, err := h.productRepo.FindByID(txCtx, cmd.ProductID, cmd.OwnerID)
		if err != nil {
			return err
		}
		if err := product.Discontinue(); err != nil {
			return err
		}
		return saveProduct(txCtx, h.productRepo, h.outboxRepo, product, cmd.OwnerID)
	})
}
