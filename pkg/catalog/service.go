// Package catalog owns the product collection: browsing, admin CRUD,
// reviews with aggregate-rating maintenance, and the best-sellers
// report.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/example/bakeshop/pkg/models"
	"github.com/example/bakeshop/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidProduct  = errors.New("product requires a name, description, image, valid category and non-negative price")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrMissingComment  = errors.New("comment is required")
)

// ProductStore is the persistence surface for products.
type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByNames(ctx context.Context, names []string) ([]*models.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, int64, error)
	NewestInStock(ctx context.Context, exclude []string, limit int64) ([]*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error
}

// ReviewStore is the persistence surface for reviews.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// SalesSource supplies per-name sales totals for the best-sellers
// report.
type SalesSource interface {
	BestSellingNames(ctx context.Context, limit int64) ([]repository.NameSales, error)
}

type Service struct {
	products ProductStore
	reviews  ReviewStore
	sales    SalesSource
	logger   *zap.Logger
}

func NewService(products ProductStore, reviews ReviewStore, sales SalesSource, logger *zap.Logger) *Service {
	return &Service{
		products: products,
		reviews:  reviews,
		sales:    sales,
		logger:   logger,
	}
}

func (s *Service) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, int64, error) {
	return s.products.List(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	return product, nil
}

func (s *Service) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.Name == "" || p.Description == "" || p.Image == "" || p.Price < 0 || !models.ValidCategory(p.Category) {
		return ErrInvalidProduct
	}
	if err := s.products.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.Info("Product created", zap.String("name", p.Name), zap.String("category", p.Category))
	return nil
}

// ProductInput is a partial update: nil fields are left untouched.
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	InStock     *bool    `json:"inStock"`
	Bestseller  *bool    `json:"bestseller"`
}

func (s *Service) UpdateProduct(ctx context.Context, id string, input *ProductInput) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	update := bson.M{}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidProduct
		}
		update["price"] = *input.Price
	}
	if input.Image != nil {
		update["image"] = *input.Image
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			return nil, ErrInvalidProduct
		}
		update["category"] = *input.Category
	}
	if input.InStock != nil {
		update["inStock"] = *input.InStock
	}
	if input.Bestseller != nil {
		update["bestseller"] = *input.Bestseller
	}
	if len(update) == 0 {
		return nil, ErrInvalidProduct
	}

	product, err := s.products.Update(ctx, oid, update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}
	if err := s.products.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.logger.Info("Product deleted", zap.String("id", id))
	return nil
}

func (s *Service) ListReviews(ctx context.Context, productID string) ([]*models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return s.reviews.FindByProduct(ctx, oid)
}

// AddReview stores a review and recomputes the product's aggregate
// rating and review count.
func (s *Service) AddReview(ctx context.Context, productID string, userID primitive.ObjectID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if comment == "" {
		return nil, ErrMissingComment
	}

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		Product: product.ID,
		User:    userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := s.recomputeRating(ctx, product.ID); err != nil {
		s.logger.Error("Failed to recompute product rating", zap.String("product", productID), zap.Error(err))
	}

	return review, nil
}

// DeleteReview removes a review and recomputes the owning product's
// aggregate.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrReviewNotFound
	}

	review, err := s.reviews.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to fetch review: %w", err)
	}

	if err := s.reviews.Delete(ctx, oid); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := s.recomputeRating(ctx, review.Product); err != nil {
		s.logger.Error("Failed to recompute product rating", zap.String("product", review.Product.Hex()), zap.Error(err))
	}
	return nil
}

// recomputeRating maintains the invariant rating == round(mean, 1) and
// reviewCount == count over the product's current reviews.
func (s *Service) recomputeRating(ctx context.Context, productID primitive.ObjectID) error {
	reviews, err := s.reviews.FindByProduct(ctx, productID)
	if err != nil {
		return err
	}

	if len(reviews) == 0 {
		return s.products.SetRating(ctx, productID, 0, 0)
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	rating := math.Round(mean*10) / 10

	return s.products.SetRating(ctx, productID, rating, len(reviews))
}
