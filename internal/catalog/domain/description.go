package domain

// MaxDescriptionLength is the maximum description size in bytes.
const MaxDescriptionLength = 4096

// Description is free-form product copy. It may be empty.
type Description struct {
	value string
}

// NewDescription creates a Description, stored verbatim.
func NewDescription(value string) (Description, error) {
	if len(value) > MaxDescriptionLength {
		return Description{}, ErrDescriptionTooLong
	}
	return Description{value: value}, nil
}

// String returns the description text.
func (d Description) String() string { return d.value }

// IsEmpty returns true if there is no description.
func (d Description) IsEmpty() bool { return d.value == "" }

// Equals checks if two descriptions are equal.
func (d Description) Equals(other Description) bool { return d.value == other.value }
