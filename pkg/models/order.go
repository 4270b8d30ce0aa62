package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order lifecycle states.
const (
	StatusPending        = "pending"
	StatusConfirmed      = "confirmed"
	StatusProcessing     = "processing"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment states.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods. Only cash-on-delivery is functional; online is
// accepted as a value but never charged.
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// Delivery time slots.
const (
	DeliveryMorning   = "morning"
	DeliveryAfternoon = "afternoon"
	DeliveryEvening   = "evening"
)

func ValidDeliveryTime(t string) bool {
	switch t {
	case DeliveryMorning, DeliveryAfternoon, DeliveryEvening:
		return true
	}
	return false
}

// OrderItem is a snapshot of the product at order time, not a live
// reference. Price is the catalog price when the order was placed.
type OrderItem struct {
	Product       primitive.ObjectID `bson:"product" json:"product"`
	Name          string             `bson:"name" json:"name"`
	Price         float64            `bson:"price" json:"price"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Image         string             `bson:"image" json:"image"`
	Customization string             `bson:"customization,omitempty" json:"customization,omitempty"`
}

type CustomerInfo struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type DeliveryAddress struct {
	Address  string `bson:"address" json:"address"`
	City     string `bson:"city" json:"city"`
	Pincode  string `bson:"pincode" json:"pincode"`
	Landmark string `bson:"landmark,omitempty" json:"landmark,omitempty"`
}

type Order struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber         string             `bson:"orderNumber" json:"orderNumber"`
	Items               []OrderItem        `bson:"items" json:"items"`
	CustomerInfo        CustomerInfo       `bson:"customerInfo" json:"customerInfo"`
	DeliveryAddress     DeliveryAddress    `bson:"deliveryAddress" json:"deliveryAddress"`
	DeliveryDate        time.Time          `bson:"deliveryDate" json:"deliveryDate"`
	DeliveryTime        string             `bson:"deliveryTime" json:"deliveryTime"`
	SpecialInstructions string             `bson:"specialInstructions,omitempty" json:"specialInstructions,omitempty"`
	CakeMessage         string             `bson:"cakeMessage,omitempty" json:"cakeMessage,omitempty"`
	Subtotal            float64            `bson:"subtotal" json:"subtotal"`
	DeliveryFee         float64            `bson:"deliveryFee" json:"deliveryFee"`
	TotalAmount         float64            `bson:"totalAmount" json:"totalAmount"`
	PaymentMethod       string             `bson:"paymentMethod" json:"paymentMethod"`
	OrderStatus         string             `bson:"orderStatus" json:"orderStatus"`
	PaymentStatus       string             `bson:"paymentStatus" json:"paymentStatus"`
	TrackingNumber      string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}
