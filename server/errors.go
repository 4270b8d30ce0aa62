package server

import (
	"errors"
	"net/http"

	"github.com/example/bakeshop/pkg/cart"
	"github.com/example/bakeshop/pkg/catalog"
	"github.com/example/bakeshop/pkg/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps the domain error taxonomy onto HTTP statuses:
// validation 400, not-found 404, state-conflict 409, everything else an
// opaque 500 logged server-side.
func (s *Server) writeError(c *gin.Context, err error) {
	var verr *order.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "violations": verr.Violations})
		return
	}

	var nf *order.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	var sc *order.StateConflictError
	if errors.As(err, &sc) {
		c.JSON(http.StatusConflict, gin.H{"error": sc.Error(), "currentStatus": sc.Current})
		return
	}

	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, catalog.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrInvalidProduct),
		errors.Is(err, catalog.ErrInvalidRating),
		errors.Is(err, catalog.ErrMissingComment),
		errors.Is(err, cart.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("requestID")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
