// Package order implements the order engine: converting a validated
// cart plus delivery details into a durable order record, and driving
// each order through its status lifecycle.
package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/example/bakeshop/pkg/config"
	"github.com/example/bakeshop/pkg/models"
	"github.com/example/bakeshop/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	orderNumberPrefix = "ORD"
	maxCakeMessageLen = 50
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)
)

// Catalog resolves products for stock and price checks.
type Catalog interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

// Store is the order persistence surface the engine writes through.
type Store interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, filter repository.OrderFilter) ([]*models.Order, int64, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Order, error)
}

// ItemRequest is one requested line item. Price is ignored: the catalog
// price at order time is authoritative, so a tampered client price
// never reaches the total.
type ItemRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	Image         string  `json:"image"`
	Customization string  `json:"customization"`
}

type CreateRequest struct {
	Items               []ItemRequest          `json:"items"`
	CustomerInfo        models.CustomerInfo    `json:"customerInfo"`
	DeliveryAddress     models.DeliveryAddress `json:"deliveryAddress"`
	DeliveryDate        string                 `json:"deliveryDate"`
	DeliveryTime        string                 `json:"deliveryTime"`
	SpecialInstructions string                 `json:"specialInstructions"`
	CakeMessage         string                 `json:"cakeMessage"`
	PaymentMethod       string                 `json:"paymentMethod"`
}

// Summary is the confirmation returned after a successful checkout.
type Summary struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber"`
	TotalAmount float64 `json:"totalAmount"`
	OrderStatus string  `json:"orderStatus"`
}

type UpdateStatusRequest struct {
	OrderStatus    string `json:"orderStatus"`
	PaymentStatus  string `json:"paymentStatus"`
	TrackingNumber string `json:"trackingNumber"`
}

type Service struct {
	store    Store
	catalog  Catalog
	delivery config.DeliveryConfig
	logger   *zap.Logger
}

func NewService(store Store, catalog Catalog, delivery config.DeliveryConfig, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		catalog:  catalog,
		delivery: delivery,
		logger:   logger,
	}
}

// Create validates the request, prices it from the catalog, and
// persists the order in its initial status. Validation fully precedes
// the single write, so a failed submission has no partial side effects.
// Stock is checked but never decremented: products are boolean
// in/out-of-stock.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Summary, error) {
	deliveryDate, verr := validateCreate(req)
	if verr != nil {
		return nil, verr
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			return nil, &NotFoundError{Resource: "product", Name: item.Name}
		}

		product, err := s.catalog.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, &NotFoundError{Resource: "product", Name: item.Name}
			}
			return nil, fmt.Errorf("failed to resolve product: %w", err)
		}

		if !product.InStock {
			return nil, &ValidationError{Violations: []string{
				fmt.Sprintf("product out of stock: %s", product.Name),
			}}
		}

		subtotal += product.Price * float64(item.Quantity)

		items = append(items, models.OrderItem{
			Product:       product.ID,
			Name:          product.Name,
			Price:         product.Price,
			Quantity:      item.Quantity,
			Image:         product.Image,
			Customization: item.Customization,
		})
	}

	deliveryFee := s.DeliveryFee(subtotal)

	order := &models.Order{
		OrderNumber:         newOrderNumber(),
		Items:               items,
		CustomerInfo:        req.CustomerInfo,
		DeliveryAddress:     req.DeliveryAddress,
		DeliveryDate:        deliveryDate,
		DeliveryTime:        req.DeliveryTime,
		SpecialInstructions: req.SpecialInstructions,
		CakeMessage:         req.CakeMessage,
		Subtotal:            subtotal,
		DeliveryFee:         deliveryFee,
		TotalAmount:         subtotal + deliveryFee,
		PaymentMethod:       req.PaymentMethod,
		OrderStatus:         models.StatusPending,
		PaymentStatus:       models.PaymentPending,
	}

	if err := s.store.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalAmount),
		zap.Int("items", len(order.Items)))

	// TODO: send order confirmation email once a mail provider is wired up.

	return &Summary{
		ID:          order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
		OrderStatus: order.OrderStatus,
	}, nil
}

// DeliveryFee is zero at or above the free-delivery threshold, else the
// configured flat fee.
func (s *Service) DeliveryFee(subtotal float64) float64 {
	if subtotal >= s.delivery.FreeAbove {
		return 0
	}
	return s.delivery.FlatFee
}

func (s *Service) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &NotFoundError{Resource: "order", Name: id}
	}
	order, err := s.store.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: "order", Name: id}
		}
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, filter repository.OrderFilter) ([]*models.Order, int64, error) {
	return s.store.List(ctx, filter)
}

// UpdateStatus applies an admin update. Status changes go through the
// transition table before anything is written; payment status and
// tracking number may ride along or stand alone.
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*models.Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}

	if req.OrderStatus != "" {
		if !ValidStatus(req.OrderStatus) {
			return nil, &ValidationError{Violations: []string{
				fmt.Sprintf("unknown order status: %s", req.OrderStatus),
			}}
		}
		if !CanTransition(current.OrderStatus, req.OrderStatus) {
			return nil, &StateConflictError{Current: current.OrderStatus, Requested: req.OrderStatus}
		}
		fields["orderStatus"] = req.OrderStatus
	}

	if req.PaymentStatus != "" {
		if !ValidPaymentStatus(req.PaymentStatus) {
			return nil, &ValidationError{Violations: []string{
				fmt.Sprintf("unknown payment status: %s", req.PaymentStatus),
			}}
		}
		fields["paymentStatus"] = req.PaymentStatus
	}

	if req.TrackingNumber != "" {
		fields["trackingNumber"] = req.TrackingNumber
	}

	if len(fields) == 0 {
		return nil, &ValidationError{Violations: []string{"nothing to update"}}
	}

	updated, err := s.store.UpdateFields(ctx, current.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info("Order updated",
		zap.String("order_number", updated.OrderNumber),
		zap.String("status", updated.OrderStatus),
		zap.String("payment_status", updated.PaymentStatus))

	// TODO: send status update email once a mail provider is wired up.

	return updated, nil
}

// Cancel flips an order to cancelled. Blocked once fulfillment has
// progressed past confirmed; orders are never deleted.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(current.OrderStatus, models.StatusCancelled) {
		return nil, &StateConflictError{Current: current.OrderStatus}
	}

	updated, err := s.store.UpdateFields(ctx, current.ID, bson.M{"orderStatus": models.StatusCancelled})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.Info("Order cancelled", zap.String("order_number", updated.OrderNumber))

	return updated, nil
}

// newOrderNumber builds a human-readable, time-based identifier:
// prefix, current millis, random suffix in [0, 1000). Practically but
// not cryptographically unique; the document _id stays the strictly
// unique key.
func newOrderNumber() string {
	return fmt.Sprintf("%s%d%d", orderNumberPrefix, time.Now().UnixMilli(), rand.Intn(1000))
}

// validateCreate runs the full request validation in one pass, collecting
// every violation in check order. The first violation is the rejection
// reason.
func validateCreate(req *CreateRequest) (time.Time, *ValidationError) {
	var violations []string

	if len(req.Items) == 0 {
		violations = append(violations, "no items in order")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			violations = append(violations, fmt.Sprintf("invalid quantity for item: %s", item.Name))
			break
		}
	}

	if req.CustomerInfo.Name == "" || req.CustomerInfo.Email == "" || req.CustomerInfo.Phone == "" ||
		req.DeliveryAddress.Address == "" || req.DeliveryAddress.City == "" || req.DeliveryAddress.Pincode == "" ||
		req.DeliveryDate == "" || req.DeliveryTime == "" {
		violations = append(violations, "missing required fields")
	}

	if req.CustomerInfo.Email != "" && !emailPattern.MatchString(req.CustomerInfo.Email) {
		violations = append(violations, "invalid email address")
	}
	if req.CustomerInfo.Phone != "" && !phonePattern.MatchString(req.CustomerInfo.Phone) {
		violations = append(violations, "invalid phone number")
	}
	if req.DeliveryAddress.Pincode != "" && !pincodePattern.MatchString(req.DeliveryAddress.Pincode) {
		violations = append(violations, "invalid pincode")
	}

	var deliveryDate time.Time
	if req.DeliveryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			violations = append(violations, "invalid delivery date")
		} else {
			// Compare calendar dates, not instants: the parsed date is
			// UTC midnight, so today is rebuilt from the shop's local
			// date the same way.
			y, m, d := time.Now().Date()
			today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			if parsed.Before(today) {
				violations = append(violations, "delivery date cannot be in the past")
			}
			deliveryDate = parsed
		}
	}

	if req.DeliveryTime != "" && !models.ValidDeliveryTime(req.DeliveryTime) {
		violations = append(violations, "invalid delivery time slot")
	}

	if len(req.CakeMessage) > maxCakeMessageLen {
		violations = append(violations, "cake message too long")
	}

	switch req.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodOnline:
	default:
		violations = append(violations, "invalid payment method")
	}

	if len(violations) > 0 {
		return time.Time{}, &ValidationError{Violations: violations}
	}
	return deliveryDate, nil
}
