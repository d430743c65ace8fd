package domain

import (
	"github.com/cespare/xxhash/v2"
	sharedDomain "github.com/felixgeelhaar/catalog/internal/shared/domain"
)

// Title is the non-blank display name of a product.
//
// A Title is immutable and compares by value. The zero Title is only ever
// returned alongside an error and is not a valid title.
type Title struct {
	value string
}

var (
	_ sharedDomain.ValueObject[Title] = Title{}
	_ sharedDomain.Hashable           = Title{}
)

// NewTitle wraps value as a Title. It returns ErrBlankTitle when value is
// empty or whitespace only. The string is stored exactly as given.
func NewTitle(value string) (Title, error) {
	if sharedDomain.IsBlank(value) {
		return Title{}, ErrBlankTitle
	}
	return Title{value: value}, nil
}

// MustTitle is like NewTitle but panics on blank input.
// Intended for fixtures and constants.
func MustTitle(value string) Title {
	t, err := NewTitle(value)
	if err != nil {
		panic(err)
	}
	return t
}

// Value returns the stored string unchanged.
func (t Title) Value() string {
	return t.value
}

// String returns the title text.
func (t Title) String() string {
	return t.value
}

// Equals reports whether both titles wrap the same string.
func (t Title) Equals(other Title) bool {
	return t.value == other.value
}

// Hash returns a hash derived solely from the title text.
func (t Title) Hash() uint64 {
	return xxhash.Sum64String(t.value)
}

// IsZero reports whether t is the zero Title.
func (t Title) IsZero() bool {
	return t.value == ""
}

// DistinctTitles returns titles with duplicates removed, keeping the first
// occurrence of each.
func DistinctTitles(titles []Title) []Title {
	seen := make(map[Title]struct{}, len(titles))
	out := make([]Title, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
