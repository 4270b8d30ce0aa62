package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSortSpec(t *testing.T) {
	newestFirst := bson.D{{Key: "createdAt", Value: -1}}

	tests := []struct {
		in   string
		want bson.D
	}{
		{"", newestFirst},
		{"-createdAt", newestFirst},
		{"price", bson.D{{Key: "price", Value: 1}}},
		{"-price", bson.D{{Key: "price", Value: -1}}},
		{"-rating", bson.D{{Key: "rating", Value: -1}}},
		{"name", bson.D{{Key: "name", Value: 1}}},
		// A bare "-" or an unknown field falls back to the default
		// instead of sorting by an arbitrary key.
		{"-", newestFirst},
		{"password", newestFirst},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sortSpec(tt.in), "sort=%q", tt.in)
	}
}
