package repository

import (
	"context"
	"errors"

	"roboturkiye-backend/internal/models"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("duplicate key")
	ErrVersionConflict = errors.New("version conflict")
)

type UserRepository interface {
	// Create inserts user and returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// ProductFilter selects products for listing. Empty Category and Search
// disable the respective filter; Limit 0 means no limit.
type ProductFilter struct {
	Category string
	Search   string
	Skip     int64
	Limit    int64
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (*models.Product, error)
	// List returns the page selected by filter in stored order along with
	// the total number of matches.
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	// List returns categories in insertion order.
	List(ctx context.Context) ([]models.Category, error)
}

type CartRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Cart, error)
	// GetOrCreate returns the user's cart, creating an empty one if none
	// exists. Concurrent callers for the same user observe the same cart.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	// ReplaceItems stores items if the cart is still at version and returns
	// the updated cart. A stale version yields ErrVersionConflict.
	ReplaceItems(ctx context.Context, userID string, version int64, items []models.CartItem) (*models.Cart, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// ListByUser and ListAll return newest orders first.
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// Transition writes both lifecycle fields in one step. It returns
	// ErrVersionConflict, leaving the order untouched, if the stored state
	// is no longer from.
	Transition(ctx context.Context, id string, from, to models.OrderState) (*models.Order, error)
}

// Store bundles the five collections.
type Store struct {
	Users      UserRepository
	Products   ProductRepository
	Categories CategoryRepository
	Carts      CartRepository
	Orders     OrderRepository
}
