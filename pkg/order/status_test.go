package order

import (
	"testing"

	"github.com/example/bakeshop/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		current string
		next    string
		allowed bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusProcessing, false},
		{models.StatusPending, models.StatusDelivered, false},
		{models.StatusConfirmed, models.StatusProcessing, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusDelivered, false},
		{models.StatusProcessing, models.StatusOutForDelivery, true},
		{models.StatusProcessing, models.StatusCancelled, false},
		{models.StatusOutForDelivery, models.StatusDelivered, true},
		{models.StatusOutForDelivery, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusCancelled, false},
		{"unknown", models.StatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.current, tt.next),
			"%s -> %s", tt.current, tt.next)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{
		models.StatusPending, models.StatusConfirmed, models.StatusProcessing,
		models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled,
	} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("shipped"))
	assert.False(t, ValidStatus(""))
}
