package server

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/example/bakeshop/pkg/auth"
	"github.com/example/bakeshop/pkg/catalog"
	"github.com/example/bakeshop/pkg/models"
	"github.com/example/bakeshop/pkg/repository"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *Server) listProducts(c *gin.Context) {
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", "-createdAt"),
		Page:     parseInt64(c.DefaultQuery("page", "1"), 1),
		Limit:    parseInt64(c.DefaultQuery("limit", "20"), 20),
	}

	// The storefront only shows what can be bought; admins pass
	// inStock=all to see everything.
	if c.DefaultQuery("inStock", "true") != "all" {
		inStock := c.DefaultQuery("inStock", "true") == "true"
		filter.InStock = &inStock
	}
	if v := c.Query("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	if v := c.Query("minRating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinRating = &f
		}
	}
	if c.Query("bestseller") == "true" {
		filter.Bestseller = true
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	products, total, err := s.catalog.ListProducts(ctx, filter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"total":    total,
		"page":     filter.Page,
		"pages":    int64(math.Ceil(float64(total) / float64(filter.Limit))),
		"products": products,
	})
}

func (s *Server) getProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	product, err := s.catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

func (s *Server) bestSellers(c *gin.Context) {
	limit := parseInt64(c.DefaultQuery("limit", "6"), 6)

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	sellers, err := s.catalog.BestSellers(ctx, limit)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(sellers),
		"data":    sellers,
	})
}

func (s *Server) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := s.catalog.CreateProduct(ctx, &product); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

func (s *Server) updateProduct(c *gin.Context) {
	var input catalog.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	product, err := s.catalog.UpdateProduct(ctx, c.Param("id"), &input)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

func (s *Server) deleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := s.catalog.DeleteProduct(ctx, c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listReviews(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	reviews, err := s.catalog.ListReviews(ctx, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(reviews), "reviews": reviews})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) createReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString(auth.ContextUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	review, err := s.catalog.AddReview(ctx, c.Param("id"), userID, req.Rating, req.Comment)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}

func (s *Server) deleteReview(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := s.catalog.DeleteReview(ctx, c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseInt64(s string, fallback int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
