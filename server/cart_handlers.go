package server

import (
	"context"
	"net/http"

	"github.com/example/bakeshop/pkg/auth"
	"github.com/example/bakeshop/pkg/cart"
	"github.com/example/bakeshop/pkg/models"
	"github.com/example/bakeshop/pkg/repository"
	"github.com/gin-gonic/gin"
)

// sessionCart rebuilds the caller's cart engine from its persisted
// state. Each authenticated user owns one cart keyed by their id.
func (s *Server) sessionCart(ctx context.Context, c *gin.Context) *cart.Cart {
	store := repository.NewCartStore(s.carts, c.GetString(auth.ContextUserID))
	return cart.New(ctx, store, s.logger)
}

func (s *Server) getCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	sc := s.sessionCart(ctx, c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   sc.Items(),
		"total":   sc.Total(),
	})
}

type putCartRequest struct {
	Items []models.CartItem `json:"items"`
}

// clearCart drops the saved cart outright, the post-checkout sync.
func (s *Server) clearCart(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	store := repository.NewCartStore(s.carts, c.GetString(auth.ContextUserID))
	if err := store.Clear(ctx); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// putCart replaces the saved cart with the client's local copy. Last
// write wins, matching the local-storage contract.
func (s *Server) putCart(c *gin.Context) {
	var req putCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	sc := s.sessionCart(ctx, c)
	sc.Replace(ctx, req.Items)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   sc.Items(),
		"total":   sc.Total(),
	})
}
