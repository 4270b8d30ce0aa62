// Package server wires the storefront's HTTP surface: catalog
// browsing, cart sync, checkout, order management, reviews, auth and
// the admin back-office, all over a gin router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/example/bakeshop/pkg/auth"
	"github.com/example/bakeshop/pkg/catalog"
	"github.com/example/bakeshop/pkg/config"
	"github.com/example/bakeshop/pkg/models"
	"github.com/example/bakeshop/pkg/order"
	"github.com/example/bakeshop/pkg/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// requestTimeout bounds every store call made on behalf of a request.
const requestTimeout = 10 * time.Second

// UserStore is the user persistence surface the auth handlers use.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	auth     *auth.Manager
	orders   *order.Service
	catalog  *catalog.Service
	users    UserStore
	contacts *repository.ContactRepository
	carts    *repository.RedisRepository
}

func New(
	cfg *config.Config,
	logger *zap.Logger,
	authManager *auth.Manager,
	orders *order.Service,
	cat *catalog.Service,
	users UserStore,
	contacts *repository.ContactRepository,
	carts *repository.RedisRepository,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		auth:     authManager,
		orders:   orders,
		catalog:  cat,
		users:    users,
		contacts: contacts,
		carts:    carts,
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", s.register)
			authRoutes.POST("/login", s.login)
			authRoutes.POST("/logout", s.logout)
			authRoutes.GET("/me", s.auth.Middleware(), s.me)
		}

		products := v1.Group("/products")
		{
			products.GET("", s.listProducts)
			products.GET("/best-sellers", s.bestSellers)
			products.GET("/:id", s.getProduct)
			products.GET("/:id/reviews", s.listReviews)
			products.POST("/:id/reviews", s.auth.Middleware(), s.createReview)
			products.POST("", s.auth.Middleware(), auth.AdminRequired(), s.createProduct)
			products.PUT("/:id", s.auth.Middleware(), auth.AdminRequired(), s.updateProduct)
			products.DELETE("/:id", s.auth.Middleware(), auth.AdminRequired(), s.deleteProduct)
		}

		v1.DELETE("/reviews/:id", s.auth.Middleware(), auth.AdminRequired(), s.deleteReview)

		cartRoutes := v1.Group("/cart", s.auth.Middleware())
		{
			cartRoutes.GET("", s.getCart)
			cartRoutes.PUT("", s.putCart)
			cartRoutes.DELETE("", s.clearCart)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", s.createOrder)
			orders.GET("", s.listOrders)
			orders.GET("/:id", s.getOrder)
			orders.PATCH("/:id/status", s.auth.Middleware(), auth.AdminRequired(), s.updateOrderStatus)
			orders.DELETE("/:id", s.cancelOrder)
		}

		v1.POST("/contact", s.createContact)
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// Router exposes the configured engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetString("requestID")),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
