package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/bakeshop/pkg/cart"
	"github.com/example/bakeshop/pkg/catalog"
	"github.com/example/bakeshop/pkg/order"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	s := &Server{logger: zap.NewNop()}
	s.writeError(c, err)
	return w.Code
}

func TestWriteErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &order.ValidationError{Violations: []string{"no items in order"}}, http.StatusBadRequest},
		{"not found", &order.NotFoundError{Resource: "product", Name: "Ghost Cake"}, http.StatusNotFound},
		{"state conflict", &order.StateConflictError{Current: "delivered"}, http.StatusConflict},
		{"product not found", catalog.ErrProductNotFound, http.StatusNotFound},
		{"review not found", catalog.ErrReviewNotFound, http.StatusNotFound},
		{"invalid rating", catalog.ErrInvalidRating, http.StatusBadRequest},
		{"invalid quantity", cart.ErrInvalidQuantity, http.StatusBadRequest},
		{"infrastructure", errors.New("store unreachable"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(t, tt.err))
		})
	}
}
