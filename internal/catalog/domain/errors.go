package domain

import (
	"errors"
	"fmt"

	sharedDomain "github.com/felixgeelhaar/catalog/internal/shared/domain"
)

// Validation errors. Each wraps sharedDomain.ErrInvalidArgument.
var (
	ErrBlankTitle         = fmt.Errorf("%w: title cannot be blank", sharedDomain.ErrInvalidArgument)
	ErrInvalidPrice       = fmt.Errorf("%w: price must be a non-negative amount", sharedDomain.ErrInvalidArgument)
	ErrInvalidCurrency    = fmt.Errorf("%w: currency must be a three-letter ISO 4217 code", sharedDomain.ErrInvalidArgument)
	ErrDescriptionTooLong = fmt.Errorf("%w: description exceeds maximum length", sharedDomain.ErrInvalidArgument)
	ErrBlankTag           = fmt.Errorf("%w: tag cannot be blank", sharedDomain.ErrInvalidArgument)
)

var (
	// ErrProductNotFound indicates the requested product was not found.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductDiscontinued indicates the product is discontinued and cannot be modified.
	ErrProductDiscontinued = errors.New("product is discontinued")

	// ErrDuplicateTitle indicates the owner already has a product with this title.
	ErrDuplicateTitle = errors.New("product title already in use")
)
