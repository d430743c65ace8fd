package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", true},
		{"single space", " ", true},
		{"tab", "\t", true},
		{"multiple spaces", "    ", true},
		{"mixed whitespace", " \t\r\n ", true},
		{"non-breaking space", "\u00a0", true},
		{"word", "Widget", false},
		{"padded word", "  Widget  ", false},
		{"single rune", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBlank(tt.input))
		})
	}
}

func TestErrInvalidArgument_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: something", ErrInvalidArgument)

	assert.True(t, errors.Is(wrapped, ErrInvalidArgument))
	assert.Equal(t, "invalid argument: something", wrapped.Error())
}

// code is a test double that satisfies ValueObject and Hashable.
type code struct {
	value string
}

func (c code) Equals(other code) bool { return c.value == other.value }
func (c code) Hash() uint64           { return uint64(len(c.value)) }

func TestValueObject_Contract(t *testing.T) {
	var vo ValueObject[code] = code{value: "a"}
	var h Hashable = code{value: "a"}

	assert.True(t, vo.Equals(code{value: "a"}))
	assert.False(t, vo.Equals(code{value: "b"}))
	assert.Equal(t, uint64(1), h.Hash())
}
