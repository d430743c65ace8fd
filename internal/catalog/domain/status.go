package domain

import "fmt"

// Status represents the product lifecycle state.
type Status string

const (
	StatusActive       Status = "active"
	StatusDiscontinued Status = "discontinued"
)

// ParseStatus parses a stored status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusDiscontinued:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown product status %q", s)
	}
}

func (s Status) String() string { return string(s) }
