package server

import (
	"context"
	"math"
	"net/http"

	"github.com/example/bakeshop/pkg/order"
	"github.com/example/bakeshop/pkg/repository"
	"github.com/gin-gonic/gin"
)

func (s *Server) createOrder(c *gin.Context) {
	var req order.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	summary, err := s.orders.Create(ctx, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"order":   summary,
	})
}

func (s *Server) listOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Status:      c.Query("status"),
		Email:       c.Query("email"),
		OrderNumber: c.Query("orderNumber"),
		Page:        parseInt64(c.DefaultQuery("page", "1"), 1),
		Limit:       parseInt64(c.DefaultQuery("limit", "20"), 20),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"total":   total,
		"page":    filter.Page,
		"pages":   int64(math.Ceil(float64(total) / float64(filter.Limit))),
		"orders":  orders,
	})
}

func (s *Server) getOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ord, err := s.orders.Get(ctx, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": ord})
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ord, err := s.orders.UpdateStatus(ctx, c.Param("id"), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order updated successfully", "order": ord})
}

func (s *Server) cancelOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ord, err := s.orders.Cancel(ctx, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order cancelled successfully", "order": ord})
}
