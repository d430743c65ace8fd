package commands

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RepriceProductCommand changes a product's price. An empty Currency keeps
// the current one.
type RepriceProductCommand struct {
	ProductID uuid.UUID
	OwnerID   uuid.UUID
	Amount    string
	Currency  string
}

// RepriceProductHandler handles the RepriceProductCommand.
type RepriceProductHandler struct {
	productRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewRepriceProductHandler creates a new RepriceProductHandler.
func NewRepriceProductHandler(productRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *RepriceProductHandler {
	return &RepriceProductHandler{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle executes the RepriceProductCommand.
func (h *RepriceProductHandler) Handle(ctx context.Context, cmd RepriceProductCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		product, err := h.productRepo.FindByID(txCtx, cmd.ProductID, cmd.OwnerID)
		if err != nil {
			return err
		}

		currency := cmd.Currency
		if currency == "" {
			currency = product.Price().Currency()
		}
		price, err := domain.ParsePrice(cmd.Amount, currency)
		if err != nil {
			return err
		}

		if err := product.Reprice(price); err != nil {
			return err
		}
		return saveProduct(txCtx, h.productRepo, h.outboxRepo, product, cmd.OwnerID)
	})
}
