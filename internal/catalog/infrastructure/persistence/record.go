// Package persistence stores products in SQLite or PostgreSQL and caches
// them in Redis.
package persistence

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/catalog/internal/catalog/domain"
	"github.com/google/uuid"
)

// productRecord is the storage shape shared by the SQL repositories and the
// cache snapshot.
type productRecord struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PriceAmount   int64     `json:"price_amount"`
	PriceCurrency string    `json:"price_currency"`
	Tags          []string  `json:"tags"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func recordFromProduct(p *domain.Product) productRecord {
	return productRecord{
		ID:            p.ID(),
		OwnerID:       p.OwnerID(),
		Title:         p.Title().Value(),
		Description:   p.Description().String(),
		PriceAmount:   p.Price().Amount(),
		PriceCurrency: p.Price().Currency(),
		Tags:          p.Tags(),
		Status:        p.Status().String(),
		Version:       p.Version(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
	}
}

// toDomain revalidates every value object so a corrupt row surfaces as an
// error instead of an invalid aggregate.
func (r productRecord) toDomain() (*domain.Product, error) {
	title, err := domain.NewTitle(r.Title)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", r.ID, err)
	}
	description, err := domain.NewDescription(r.Description)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", r.ID, err)
	}
	price, err := domain.NewPrice(r.PriceAmount, r.PriceCurrency)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", r.ID, err)
	}
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", r.ID, err)
	}

	return domain.RehydrateProduct(
		r.ID, r.OwnerID,
		title, description, price,
		r.Tags, status, r.Version,
		r.CreatedAt, r.UpdatedAt,
	), nil
}
