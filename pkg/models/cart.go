package models

// CartItem is a client-side line item. Identity is the display name,
// not the product id: at most one entry per distinct name in a cart.
// Price is captured when the item is added and never re-fetched.
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category,omitempty"`
	Quantity int     `json:"quantity"`
}
