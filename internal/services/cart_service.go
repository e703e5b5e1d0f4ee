package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/repository"
)

// maxCartAttempts bounds the compare-and-swap retries of one cart write.
const maxCartAttempts = 5

// ProductLookup resolves live product records. A missing product is
// reported as an apperrors NotFound.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=1000"`
}

type CartQuantityInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"max=1000"`
}

type CartService struct {
	carts    repository.CartRepository
	products ProductLookup
	log      *zap.Logger
}

func NewCartService(carts repository.CartRepository, products ProductLookup, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log}
}

var (
	errItemNotInCart    = apperrors.New(apperrors.KindNotFound, "Item not found in cart", nil)
	errQuantityTooLarge = apperrors.Validation(
		fmt.Sprintf("Quantity cannot exceed %d per item", models.MaxLineQuantity),
		map[string]string{"quantity": fmt.Sprintf("max=%d", models.MaxLineQuantity)},
	)
)

func (s *CartService) GetCart(ctx context.Context, userID string) (*models.CartView, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.Materialize(ctx, cart.Items)
}

// AddItem adds quantity of the product, summing with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID string, input CartItemInput) (*models.CartView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	product, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.InStock {
		return nil, apperrors.OutOfStock("Product is out of stock")
	}
	if _, err := s.carts.GetOrCreate(ctx, userID); err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		for i := range items {
			if items[i].ProductID == input.ProductID {
				if items[i].Quantity > models.MaxLineQuantity-input.Quantity {
					return nil, errQuantityTooLarge
				}
				items[i].Quantity += input.Quantity
				return items, nil
			}
		}
		return append(items, models.CartItem{ProductID: input.ProductID, Quantity: input.Quantity}), nil
	})
}

// SetItemQuantity replaces the quantity of an existing line. A quantity of
// zero or below removes the line.
func (s *CartService) SetItemQuantity(ctx context.Context, userID string, input CartQuantityInput) (*models.CartView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		idx := indexOf(items, input.ProductID)
		if idx < 0 {
			return nil, errItemNotInCart
		}
		if input.Quantity <= 0 {
			return append(items[:idx], items[idx+1:]...), nil
		}
		items[idx].Quantity = input.Quantity
		return items, nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.CartView, error) {
	if productID == "" {
		return nil, apperrors.Validation("Validation error", map[string]string{"product_id": "required"})
	}
	return s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		idx := indexOf(items, productID)
		if idx < 0 {
			return nil, errItemNotInCart
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
}

// RemoveProducts drops every line for the given products. A user without
// a cart is not an error.
func (s *CartService) RemoveProducts(ctx context.Context, userID string, productIDs []string) error {
	drop := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	_, err := s.mutate(ctx, userID, func(items []models.CartItem) ([]models.CartItem, error) {
		kept := items[:0]
		for _, item := range items {
			if !drop[item.ProductID] {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil
	}
	return err
}

// mutate runs a read-modify-write on the user's cart, retrying when another
// writer bumped the version in between.
func (s *CartService) mutate(ctx context.Context, userID string, apply func([]models.CartItem) ([]models.CartItem, error)) (*models.CartView, error) {
	for attempt := 1; attempt <= maxCartAttempts; attempt++ {
		cart, err := s.carts.FindByUserID(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("cart")
		}
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		items, err := apply(append([]models.CartItem(nil), cart.Items...))
		if err != nil {
			return nil, err
		}

		updated, err := s.carts.ReplaceItems(ctx, userID, cart.Version, items)
		switch {
		case errors.Is(err, repository.ErrVersionConflict):
			s.log.Debug("cart version conflict, retrying",
				zap.String("user_id", userID),
				zap.Int("attempt", attempt),
			)
			continue
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("cart")
		case err != nil:
			return nil, apperrors.Internal(err)
		}
		return s.Materialize(ctx, updated.Items)
	}

	s.log.Warn("cart update gave up after concurrent writes", zap.String("user_id", userID))
	return nil, apperrors.ConcurrentUpdate("Cart is being modified concurrently, please retry", repository.ErrVersionConflict)
}

// Materialize joins items with their live products. Lines whose product is
// gone or out of stock are left out of both the view and the total.
func (s *CartService) Materialize(ctx context.Context, items []models.CartItem) (*models.CartView, error) {
	view := &models.CartView{Items: []models.CartLine{}}
	total := decimal.Zero
	for _, item := range items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !product.InStock {
			continue
		}
		view.Items = append(view.Items, models.CartLine{
			ProductID: item.ProductID,
			Product:   *product,
			Quantity:  item.Quantity,
		})
		total = total.Add(lineTotal(product.CurrentPrice, item.Quantity))
	}
	view.Total = money(total)
	return view, nil
}

func indexOf(items []models.CartItem, productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
