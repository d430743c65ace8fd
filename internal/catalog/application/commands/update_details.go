package commands

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateDetailsCommand changes the description and adds tags. A nil
// Description leaves the description untouched.
type UpdateDetailsCommand struct {
	ProductID   uuid.UUID
	OwnerID     uuid.UUID
	Description *string
	AddTags     []string
}

// UpdateDetailsHandler handles the UpdateDetailsCommand.
type UpdateDetailsHandler struct {
	productRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewUpdateDetailsHandler creates a new UpdateDetailsHandler.
func NewUpdateDetailsHandler(productRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateDetailsHandler {
	return &UpdateDetailsHandler{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the UpdateDetailsCommand.
func (h *UpdateDetailsHandler) Handle(ctx context.Context, cmd UpdateDetailsCommand) error {
	var description *domain.Description
	if cmd.Description != nil {
		d, err := domain.NewDescription(*cmd.Description)
		if err != nil {
			return err
		}
		description = &d
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		product, err := h.productRepo.FindByID(txCtx, cmd.ProductID, cmd.OwnerID)
		if err != nil {
			return err
		}
		if description != nil {
			if err := product.Describe(*description); err != nil {
				return err
			}
		}
		if len(cmd.AddTags) > 0 {
			if err := product.Tag(cmd.AddTags...); err != nil {
				return err
			}
		}
		return saveProduct(txCtx, h.productRepo, h.outboxRepo, product, cmd.OwnerID)
	})
}
