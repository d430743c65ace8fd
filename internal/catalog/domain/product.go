package domain

import (
	"context"
	"slices"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/catalog/internal/shared/domain"
	"github.com/google/uuid"
)

// Product is a sellable item in an owner's catalog.
type Product struct {
	sharedDomain.BaseAggregateRoot
	ownerID     uuid.UUID
	title       Title
	description Description
	price       Price
	tags        []string
	status      Status
}

// NewProduct creates an active product and records a ProductCreated event.
func NewProduct(ownerID uuid.UUID, title Title, price Price) *Product {
	p := &Product{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		ownerID:           ownerID,
		title:             title,
		price:             price,
		tags:              []string{},
		status:            StatusActive,
	}
	p.AddDomainEvent(NewProductCreated(p))
	return p
}

// RehydrateProduct rebuilds a product from persisted state without events.
func RehydrateProduct(
	id, ownerID uuid.UUID,
	title Title,
	description Description,
	price Price,
	tags []string,
	status Status,
	version int,
	createdAt, updatedAt time.Time,
) *Product {
	if tags == nil {
		tags = []string{}
	}
	return &Product{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		ownerID:     ownerID,
		title:       title,
		description: description,
		price:       price,
		tags:        tags,
		status:      status,
	}
}

// Getters
func (p *Product) OwnerID() uuid.UUID       { return p.ownerID }
func (p *Product) Title() Title             { return p.title }
func (p *Product) Description() Description { return p.description }
func (p *Product) Price() Price             { return p.price }
func (p *Product) Tags() []string           { return slices.Clone(p.tags) }
func (p *Product) Status() Status           { return p.status }
func (p *Product) IsDiscontinued() bool     { return p.status == StatusDiscontinued }

// HasTag reports whether the product carries the normalized tag.
func (p *Product) HasTag(tag string) bool {
	return slices.Contains(p.tags, NormalizeTag(tag))
}

// Retitle changes the product title. Setting an equal title is a no-op.
func (p *Product) Retitle(title Title) error {
	if p.IsDiscontinued() {
		return ErrProductDiscontinued
	}
	if title.IsZero() {
		return ErrBlankTitle
	}
	if p.title.Equals(title) {
		return nil
	}
	previous := p.title
	p.title = title
	p.Touch()
	p.AddDomainEvent(NewProductRetitled(p.ID(), previous, title))
	return nil
}

// Describe replaces the product description.
func (p *Product) Describe(description Description) error {
	if p.IsDiscontinued() {
		return ErrProductDiscontinued
	}
	p.description = description
	p.Touch()
	return nil
}

// Reprice changes the product price. Setting an equal price is a no-op.
func (p *Product) Reprice(price Price) error {
	if p.IsDiscontinued() {
		return ErrProductDiscontinued
	}
	if p.price.Equals(price) {
		return nil
	}
	p.price = price
	p.Touch()
	p.AddDomainEvent(NewProductRepriced(p.ID(), price))
	return nil
}

// Tag adds tags, lower-cased and trimmed. Existing tags are kept once.
func (p *Product) Tag(tags ...string) error {
	if p.IsDiscontinued() {
		return ErrProductDiscontinued
	}
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			return ErrBlankTag
		}
		normalized = append(normalized, n)
	}
	for _, n := range normalized {
		if !slices.Contains(p.tags, n) {
			p.tags = append(p.tags, n)
		}
	}
	p.Touch()
	return nil
}

// Discontinue withdraws the product from sale.
func (p *Product) Discontinue() error {
	if p.IsDiscontinued() {
		return ErrProductDiscontinued
	}
	p.status = StatusDiscontinued
	p.Touch()
	p.AddDomainEvent(NewProductDiscontinued(p.ID()))
	return nil
}

// NormalizeTag is the canonical form tags are stored and matched in.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// Repository defines persistence operations for products.
type Repository interface {
	// Save persists a product (create or update).
	Save(ctx context.Context, product *Product) error

	// FindByID finds a product by ID for a specific owner.
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Product, error)

	// FindByOwner finds all products for an owner.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Product, error)

	// FindByTag finds an owner's products carrying a normalized tag.
	FindByTag(ctx context.Context, ownerID uuid.UUID, tag string) ([]*Product, error)

	// FindByTitle finds an owner's product with exactly this title.
	FindByTitle(ctx context.Context, ownerID uuid.UUID, title Title) (*Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
