package commands

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	sharedApplication "github.com/felixgeelhaar/catalog/internal/shared/application"
	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateProductCommand contains the data needed to add a product.
type CreateProductCommand struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	PriceAmount string // decimal in major units, e.g. "12.50"
	Currency    string
	Tags        []string
}

// CreateProductResult contains the result of creating a product.
type CreateProductResult struct {
	ProductID uuid.UUID
}

// CreateProductHandler handles the CreateProductCommand.
type CreateProductHandler struct {
	productRepo domain.Repository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
}

// NewCreateProductHandler creates a new CreateProductHandler.
func NewCreateProductHandler(productRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateProductHandler {
	return &CreateProductHandler{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
	}
}

// Handle validates the input before opening a transaction.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*CreateProductResult, error) {
	title, err := domain.NewTitle(cmd.Title)
	if err != nil {
		return nil, err
	}
	price, err := domain.ParsePrice(cmd.PriceAmount, cmd.Currency)
	if err != nil {
		return nil, err
	}
	description, err := domain.NewDescription(cmd.Description)
	if err != nil {
		return nil, err
	}

	product := domain.NewProduct(cmd.OwnerID, title, price)
	if !description.IsEmpty() {
		if err := product.Describe(description); err != nil {
			return nil, err
		}
	}
	if len(cmd.Tags) > 0 {
		if err := product.Tag(cmd.Tags...); err != nil {
			return nil, err
		}
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := ensureTitleAvailable(txCtx, h.productRepo, cmd.OwnerID, product.ID(), title); err != nil {
			return err
		}
		return saveProduct(txCtx, h.productRepo, h.outboxRepo, product, cmd.OwnerID)
	})
	if err != nil {
		return nil, err
	}

	return &CreateProductResult{ProductID: product.ID()}, nil
}
