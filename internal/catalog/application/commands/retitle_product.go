package commands

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RetitleProductCommand renames a product.
type RetitleProductCommand struct {
	ProductID uuid.UUID
	OwnerID   uuid.UUID
	Title     string
}

// RetitleProductHandler handles the RetitleProductCommand.
type RetitleProductHandler struct {
	productRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewRetitleProductHandler creates a new RetitleProductHandler.
func NewRetitleProductHandler(productRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RetitleProductHandler {
	return &RetitleProductHandler{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the RetitleProductCommand.
func (h *RetitleProductHandler) Handle(ctx context.Context, cmd RetitleProductCommand) error {
	title, err := domain.NewTitle(cmd.Title)
	if err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		product, err := h.productRepo.FindByID(txCtx, cmd.ProductID, cmd.OwnerID)
		if err != nil {
			return err
		}
		if product.Title().Equals(title) {
			return nil
		}
		if err := ensureTitleAvailable(txCtx, h.productRepo, cmd.OwnerID, product.ID(), title); err != nil {
			return err
		}
		if err := product.Retitle(title); err != nil {
			return err
		}
		return saveProduct(txCtx, h.productRepo, h.outboxRepo, product, cmd.OwnerID)
	})
}
