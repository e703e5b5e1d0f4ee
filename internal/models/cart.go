package models

import "time"

// MaxLineQuantity caps the quantity of a single cart or order line.
const MaxLineQuantity = 1000

type CartItem struct {
	ProductID string `bson:"product_id" json:"product_id" binding:"required"`
	Quantity  int    `bson:"quantity" json:"quantity" binding:"required,min=1,max=1000"`
}

// Cart is stored once per user. Version is bumped on every item write and
// used as a compare-and-swap token.
type Cart struct {
	ID        string     `bson:"_id" json:"_id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	Version   int64      `bson:"version" json:"-"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartLine is a stored line item joined with its live product.
type CartLine struct {
	ProductID string  `json:"product_id"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
}

type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}
