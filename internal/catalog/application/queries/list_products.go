package queries

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/google/uuid"
)

// ListProductsQuery contains the parameters for listing products.
type ListProductsQuery struct {
	OwnerID             uuid.UUID
	IncludeDiscontinued bool
	Tag                 string // only products carrying this tag
}

// ListProductsHandler handles the ListProductsQuery.
type ListProductsHandler struct {
	productRepo domain.Repository
}

// NewListProductsHandler creates a new ListProductsHandler.
func NewListProductsHandler(productRepo domain.Repository) *ListProductsHandler {
	return &ListProductsHandler{productRepo: productRepo}
}

// Handle executes the ListProductsQuery. Results are sorted by title.
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]ProductDTO, error) {
	var products []*domain.Product
	var err error

	if tag := domain.NormalizeTag(query.Tag); tag != "" {
		products, err = h.productRepo.FindByTag(ctx, query.OwnerID, tag)
	} else {
		products, err = h.productRepo.FindByOwner(ctx, query.OwnerID)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		if p.IsDiscontinued() && !query.IncludeDiscontinued {
			continue
		}
		dtos = append(dtos, toProductDTO(p))
	}

	sort.SliceStable(dtos, func(i, j int) bool {
		return dtos[i].Title < dtos[j].Title
	})

	return dtos, nil
}
