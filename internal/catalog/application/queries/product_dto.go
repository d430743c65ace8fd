package queries

import (
	"time"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/google/uuid"
)

// ProductDTO is a data transfer object for products.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	PriceAmount int64     `json:"price_amount"`
	Currency    string    `json:"currency"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID(),
		OwnerID:     p.OwnerID(),
		Title:       p.Title().Value(),
		Description: p.Description().String(),
		Price:       p.Price().String(),
		PriceAmount: p.Price().Amount(),
		Currency:    p.Price().Currency(),
		Tags:        p.Tags(),
		Status:      p.Status().String(),
		Version:     p.Version(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
