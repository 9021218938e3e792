package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		name   string
		rating int
		want   int
	}{
		{"unrated passes through", 0, 0},
		{"in-range value passes through", 3, 3},
		{"max passes through", 5, 5},
		{"legacy 10-point rounds up", 7, 4},
		{"legacy even value", 6, 3},
		{"legacy max", 10, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRating(tt.rating))
		})
	}
}
