package domain

import (
	sharedDomain "github.com/felixgeelhaar/catalog/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Product"

	RoutingKeyCreated      = "catalog.product.created"
	RoutingKeyRetitled     = "catalog.product.retitled"
	RoutingKeyRepriced     = "catalog.product.repriced"
	RoutingKeyDiscontinued = "catalog.product.discontinued"
	RoutingKeyDeleted      = "catalog.product.deleted"
)

// ProductCreated is emitted when a new product is added to the catalog.
type ProductCreated struct {
	sharedDomain.BaseEvent
	OwnerID  uuid.UUID `json:"owner_id"`
	Title    string    `json:"title"`
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
}

// NewProductCreated creates a ProductCreated event.
func NewProductCreated(p *Product) *ProductCreated {
	return &ProductCreated{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), AggregateType, RoutingKeyCreated),
		OwnerID:   p.OwnerID(),
		Title:     p.Title().Value(),
		Amount:    p.Price().Amount(),
		Currency:  p.Price().Currency(),
	}
}

// ProductRetitled is emitted when a product's title changes.
type ProductRetitled struct {
	sharedDomain.BaseEvent
	PreviousTitle string `json:"previous_title"`
	Title         string `json:"title"`
}

// NewProductRetitled creates a ProductRetitled event.
func NewProductRetitled(productID uuid.UUID, previous, current Title) *ProductRetitled {
	return &ProductRetitled{
		BaseEvent:     sharedDomain.NewBaseEvent(productID, AggregateType, RoutingKeyRetitled),
		PreviousTitle: previous.Value(),
		Title:         current.Value(),
	}
}

// ProductRepriced is emitted when a product's price changes.
type ProductRepriced struct {
	sharedDomain.BaseEvent
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewProductRepriced creates a ProductRepriced event.
func NewProductRepriced(productID uuid.UUID, price Price) *ProductRepriced {
	return &ProductRepriced{
		BaseEvent: sharedDomain.NewBaseEvent(productID, AggregateType, RoutingKeyRepriced),
		Amount:    price.Amount(),
		Currency:  price.Currency(),
	}
}

// ProductDiscontinued is emitted when a product is withdrawn from sale.
type ProductDiscontinued struct {
	sharedDomain.BaseEvent
}

// NewProductDiscontinued creates a ProductDiscontinued event.
func NewProductDiscontinued(productID uuid.UUID) *ProductDiscontinued {
	return &ProductDiscontinued{
		BaseEvent: sharedDomain.NewBaseEvent(productID, AggregateType, RoutingKeyDiscontinued),
	}
}

// ProductDeleted is emitted when a product is removed from the catalog.
type ProductDeleted struct {
	sharedDomain.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Title   string    `json:"title"`
}

// NewProductDeleted creates a ProductDeleted event.
func NewProductDeleted(p *Product) *ProductDeleted {
	return &ProductDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(p.ID(), AggregateType, RoutingKeyDeleted),
		OwnerID:   p.OwnerID(),
		Title:     p.Title().Value(),
	}
}
