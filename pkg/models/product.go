package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories offered by the shop.
const (
	CategoryChocolate = "Chocolate"
	CategoryFruit     = "Fruit"
	CategoryEggless   = "Eggless"
	CategoryCustomize = "Customize"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryChocolate, CategoryFruit, CategoryEggless, CategoryCustomize:
		return true
	}
	return false
}

type ProductSize struct {
	Weight string  `bson:"weight" json:"weight"`
	Price  float64 `bson:"price" json:"price"`
	Serves string  `bson:"serves" json:"serves"`
}

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	Image           string             `bson:"image" json:"image"`
	Images          []string           `bson:"images,omitempty" json:"images,omitempty"`
	Category        string             `bson:"category" json:"category"`
	Rating          float64            `bson:"rating" json:"rating"`
	ReviewCount     int                `bson:"reviewCount" json:"reviewCount"`
	Bestseller      bool               `bson:"bestseller" json:"bestseller"`
	InStock         bool               `bson:"inStock" json:"inStock"`
	Ingredients     []string           `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	Allergens       []string           `bson:"allergens,omitempty" json:"allergens,omitempty"`
	Sizes           []ProductSize      `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Occasions       []string           `bson:"occasions,omitempty" json:"occasions,omitempty"`
	IsVegetarian    bool               `bson:"isVegetarian" json:"isVegetarian"`
	IsEggless       bool               `bson:"isEggless" json:"isEggless"`
	PreparationTime string             `bson:"preparationTime" json:"preparationTime"`
	Customizable    bool               `bson:"customizable" json:"customizable"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
