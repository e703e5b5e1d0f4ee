package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// AllProductsSlug is the category slug that means "no category filter".
const AllProductsSlug = "tum-urunler"

type User struct {
	ID           string    `bson:"_id" json:"_id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Role         Role      `bson:"role" json:"role"`
	PasswordHash string    `bson:"hashed_password" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type Product struct {
	ID            string    `bson:"_id" json:"_id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	Image         string    `bson:"image" json:"image"`
	OriginalPrice float64   `bson:"original_price" json:"original_price"`
	CurrentPrice  float64   `bson:"current_price" json:"current_price"`
	Rating        int       `bson:"rating" json:"rating"`
	Category      string    `bson:"category" json:"category"`
	Badge         *string   `bson:"badge" json:"badge"`
	InStock       bool      `bson:"in_stock" json:"in_stock"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// ProductPatch carries a partial product update. Nil fields are left as-is.
type ProductPatch struct {
	Name          *string  `json:"name" binding:"omitempty,min=2,max=200"`
	Description   *string  `json:"description" binding:"omitempty,max=1000"`
	Image         *string  `json:"image"`
	OriginalPrice *float64 `json:"original_price" binding:"omitempty,gt=0"`
	CurrentPrice  *float64 `json:"current_price" binding:"omitempty,gt=0"`
	Rating        *int     `json:"rating" binding:"omitempty,min=1,max=5"`
	Category      *string  `json:"category"`
	Badge         *string  `json:"badge"`
	InStock       *bool    `json:"in_stock"`
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Image == nil &&
		p.OriginalPrice == nil && p.CurrentPrice == nil && p.Rating == nil &&
		p.Category == nil && p.Badge == nil && p.InStock == nil
}

// Apply copies the non-nil fields of the patch onto product.
func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.OriginalPrice != nil {
		product.OriginalPrice = *p.OriginalPrice
	}
	if p.CurrentPrice != nil {
		product.CurrentPrice = *p.CurrentPrice
	}
	if p.Rating != nil {
		product.Rating = *p.Rating
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Badge != nil {
		badge := *p.Badge
		product.Badge = &badge
	}
	if p.InStock != nil {
		product.InStock = *p.InStock
	}
}

type Category struct {
	ID          string  `bson:"_id" json:"_id"`
	Name        string  `bson:"name" json:"name"`
	Slug        string  `bson:"slug" json:"slug"`
	Description *string `bson:"description" json:"description"`
}
