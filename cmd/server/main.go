package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/bakeshop/pkg/auth"
	"github.com/example/bakeshop/pkg/catalog"
	"github.com/example/bakeshop/pkg/config"
	"github.com/example/bakeshop/pkg/discovery"
	"github.com/example/bakeshop/pkg/order"
	"github.com/example/bakeshop/pkg/repository"
	"github.com/example/bakeshop/server"
	"go.uber.org/zap"
)

func main() {
	// Load config
	configPath := os.Getenv("BAKESHOP_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting bakeshop server",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	ctx := context.Background()

	// MongoDB
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoRepo.Close(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := mongoRepo.Ping(pingCtx); err != nil {
		cancel()
		logger.Fatal("MongoDB ping failed", zap.Error(err))
	}
	cancel()
	logger.Info("MongoDB connected successfully")

	if err := mongoRepo.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure indexes", zap.Error(err))
	}

	// Redis (cart persistence)
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()
	if err := redisRepo.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed, carts will not persist", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}

	// Repositories
	products := repository.NewProductRepository(mongoRepo)
	orders := repository.NewOrderRepository(mongoRepo)
	users := repository.NewUserRepository(mongoRepo)
	reviews := repository.NewReviewRepository(mongoRepo)
	contacts := repository.NewContactRepository(mongoRepo)

	// Services
	authManager := auth.NewManager(&cfg.Auth)
	orderService := order.NewService(orders, products, cfg.Delivery, logger)
	catalogService := catalog.NewService(products, reviews, orders, logger)

	// Register instance in etcd; the server runs fine without it.
	instance := &discovery.Instance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	registry, err := discovery.NewRegistry(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without registration", zap.Error(err))
		registry = nil
	} else if err := registry.Register(ctx, instance); err != nil {
		logger.Warn("Failed to register instance", zap.Error(err))
	}

	// HTTP server
	srv := server.New(cfg, logger, authManager, orderService, catalogService, users, contacts, redisRepo)
	srv.SetupRoutes()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			srvErr <- err
		}
	}()

	logger.Info("Server started successfully")

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-srvErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	if registry != nil {
		if err := registry.Deregister(ctx, instance); err != nil {
			logger.Error("Failed to deregister instance", zap.Error(err))
		}
		registry.Close()
	}

	logger.Info("Server stopped")
}
