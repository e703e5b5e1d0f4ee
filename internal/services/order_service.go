package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/cache"
	"roboturkiye-backend/internal/events"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/repository"
)

type PlaceOrderInput struct {
	Items           []models.CartItem    `json:"items" binding:"required,min=1,dive"`
	ShippingAddress models.Address       `json:"shipping_address"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" binding:"required,oneof=stripe iyzico"`
}

// StatusChange is an admin request to move an order and/or its payment
// forward. At least one field must be set.
type StatusChange struct {
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
}

type cartCleaner interface {
	RemoveProducts(ctx context.Context, userID string, productIDs []string) error
}

type OrderService struct {
	orders    repository.OrderRepository
	products  ProductLookup
	carts     cartCleaner
	idem      cache.IdempotencyStore
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewOrderService(orders repository.OrderRepository, products ProductLookup, carts cartCleaner, idem cache.IdempotencyStore, publisher events.Publisher, log *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		carts:     carts,
		idem:      idem,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func normalizeAddress(a models.Address) models.Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.AddressLine = strings.TrimSpace(a.AddressLine)
	a.City = strings.TrimSpace(a.City)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = models.DefaultCountry
	}
	return a
}

// mergeItems folds repeated product ids into one line, keeping first-seen
// order. A merged line above MaxLineQuantity is a validation error.
func mergeItems(items []models.CartItem) ([]models.CartItem, error) {
	merged := make([]models.CartItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			if merged[i].Quantity > models.MaxLineQuantity-item.Quantity {
				return nil, errQuantityTooLarge
			}
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// PlaceOrder prices the requested items against the live catalog and stores
// a pending order. Unavailable products are dropped, not rejected. The
// returned bool is false when idempotencyKey matched an earlier order, which
// is returned instead of placing a new one.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput, idempotencyKey string) (*models.Order, bool, error) {
	input.ShippingAddress = normalizeAddress(input.ShippingAddress)
	if err := validateInput(input); err != nil {
		return nil, false, err
	}

	if existing := s.replay(ctx, userID, idempotencyKey); existing != nil {
		return existing, false, nil
	}

	items, err := mergeItems(input.Items)
	if err != nil {
		return nil, false, err
	}

	var lines []models.OrderItem
	subtotal := decimal.Zero
	for _, item := range items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, false, err
		}
		if !product.InStock {
			continue
		}
		lines = append(lines, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Name:      product.Name,
			UnitPrice: product.CurrentPrice,
		})
		subtotal = subtotal.Add(lineTotal(product.CurrentPrice, item.Quantity))
	}
	if len(lines) == 0 {
		return nil, false, apperrors.Validation("None of the requested products are available", map[string]string{"items": "available"})
	}

	shipping := shippingFor(subtotal)
	now := s.now().UTC()
	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           lines,
		Total:           money(subtotal.Add(shipping)),
		Shipping:        money(shipping),
		Status:          models.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, false, apperrors.Internal(err)
	}
	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int("lines", len(lines)),
		zap.Float64("total", order.Total),
	)

	s.afterPlace(ctx, order, idempotencyKey)
	return order, true, nil
}

// replay returns the order previously recorded for key, if any. Lookup
// failures fall through to placing a new order.
func (s *OrderService) replay(ctx context.Context, userID, key string) *models.Order {
	if key == "" || s.idem == nil {
		return nil
	}
	orderID, err := s.idem.Get(ctx, userID, key)
	if err != nil {
		s.log.Warn("idempotency lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	if orderID == "" {
		return nil
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil || order.UserID != userID {
		return nil
	}
	s.log.Info("order replayed from idempotency key", zap.String("order_id", order.ID))
	return order
}

// afterPlace runs the follow-ups whose failure must not fail the order.
func (s *OrderService) afterPlace(ctx context.Context, order *models.Order, key string) {
	if key != "" && s.idem != nil {
		if err := s.idem.Set(ctx, order.UserID, key, order.ID); err != nil {
			s.log.Warn("failed to record idempotency key", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if s.carts != nil {
		ids := make([]string, len(order.Items))
		for i, item := range order.Items {
			ids[i] = item.ProductID
		}
		if err := s.carts.RemoveProducts(ctx, order.UserID, ids); err != nil {
			s.log.Warn("failed to clear ordered products from cart", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	if err := s.publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order)); err != nil {
		s.log.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return orders, nil
}

// GetOrder returns the order if requester owns it or is an admin. Anyone
// else gets NotFound so order ids cannot be probed.
func (s *OrderService) GetOrder(ctx context.Context, requester *models.User, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("order")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if order.UserID != requester.ID && !requester.IsAdmin() {
		return nil, apperrors.NotFound("order")
	}
	return order, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.OrderView, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	views := make([]models.OrderView, 0, len(orders))
	for i := range orders {
		view, err := s.view(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// UpdateStatus moves an order along the status and payment lifecycles.
// Both requested transitions are checked, then written together only if
// neither field changed since the order was read.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, change StatusChange) (*models.OrderView, error) {
	if change.Status == nil && change.PaymentStatus == nil {
		return nil, apperrors.Validation("Nothing to update", map[string]string{"status": "required_without=payment_status"})
	}
	if change.Status != nil && !change.Status.Valid() {
		return nil, apperrors.Validation("Unknown order status", map[string]string{"status": "oneof=pending paid shipped delivered cancelled"})
	}
	if change.PaymentStatus != nil && !change.PaymentStatus.Valid() {
		return nil, apperrors.Validation("Unknown payment status", map[string]string{"payment_status": "oneof=pending completed failed"})
	}

	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("order")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if change.Status != nil && !order.Status.CanTransitionTo(*change.Status) {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, *change.Status))
	}
	if change.PaymentStatus != nil && !order.PaymentStatus.CanTransitionTo(*change.PaymentStatus) {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("Cannot change payment status from %s to %s", order.PaymentStatus, *change.PaymentStatus))
	}

	from := order.State()
	to := from
	if change.Status != nil {
		to.Status = *change.Status
	}
	if change.PaymentStatus != nil {
		to.PaymentStatus = *change.PaymentStatus
	}
	order, err = s.orders.Transition(ctx, id, from, to)
	if err != nil {
		return nil, s.transitionErr(err)
	}

	s.log.Info("order status updated",
		zap.String("order_id", id),
		zap.String("status", string(order.Status)),
		zap.String("payment_status", string(order.PaymentStatus)),
	)
	return s.view(ctx, order)
}

func (s *OrderService) transitionErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.InvalidTransition("Order was updated concurrently, reload and retry")
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("order")
	}
	return apperrors.Internal(err)
}

// view joins each order line with the live product. Lines whose product
// has been deleted are dropped.
func (s *OrderService) view(ctx context.Context, order *models.Order) (*models.OrderView, error) {
	lines := make([]models.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.OrderLine{
			ProductID: item.ProductID,
			Product:   *product,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return &models.OrderView{
		ID:              order.ID,
		UserID:          order.UserID,
		Items:           lines,
		Total:           order.Total,
		Shipping:        order.Shipping,
		Status:          order.Status,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}, nil
}
