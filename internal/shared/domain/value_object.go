package domain

import (
	"errors"
	"strings"
)

// ErrInvalidArgument is the general kind for rejected constructor input.
// Context-specific errors wrap it so callers can match either.
var ErrInvalidArgument = errors.New("invalid argument")

// ValueObject represents an immutable domain concept defined by its attributes.
type ValueObject[T any] interface {
	Equals(other T) bool
}

// Hashable is implemented by value objects usable as deduplication keys.
// Equal values must produce equal hashes.
type Hashable interface {
	Hash() uint64
}

// IsBlank reports whether s is empty or contains only Unicode whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
