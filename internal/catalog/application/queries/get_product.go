package queries

import (
	"context"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/google/uuid"
)

// GetProductQuery contains the parameters for getting a single product.
type GetProductQuery struct {
	ProductID uuid.UUID
	OwnerID   uuid.UUID
}

// GetProductHandler handles the GetProductQuery.
type GetProductHandler struct {
	productRepo domain.Repository
}

// NewGetProductHandler creates a new GetProductHandler.
func NewGetProductHandler(productRepo domain.Repository) *GetProductHandler {
	return &GetProductHandler{productRepo: productRepo}
}

// Handle executes the GetProductQuery. Products of other owners are reported
// as not found.
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*ProductDTO, error) {
	product, err := h.productRepo.FindByID(ctx, query.ProductID, query.OwnerID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.OwnerID() != query.OwnerID {
		return nil, domain.ErrProductNotFound
	}

	dto := toProductDTO(product)
	return &dto, nil
}
