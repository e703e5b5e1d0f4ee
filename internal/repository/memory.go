package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"roboturkiye-backend/internal/models"
)

// NewMemoryStore returns a Store kept in process memory. It backs the
// STORE=memory mode and the test suites.
func NewMemoryStore() *Store {
	m := &memory{
		users:    make(map[string]*models.User),
		products: make(map[string]*models.Product),
		carts:    make(map[string]*models.Cart),
		orders:   make(map[string]*models.Order),
	}
	return &Store{
		Users:      memoryUsers{m},
		Products:   memoryProducts{m},
		Categories: memoryCategories{m},
		Carts:      memoryCarts{m},
		Orders:     memoryOrders{m},
	}
}

type memory struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	products     map[string]*models.Product
	productOrder []string
	categories   []models.Category
	carts        map[string]*models.Cart // by user id
	orders       map[string]*models.Order
	orderSeq     []string
}

type memoryUsers struct{ m *memory }

func (r memoryUsers) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	cp := *user
	r.m.users[user.ID] = &cp
	return nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memoryProducts struct{ m *memory }

func (r memoryProducts) Create(_ context.Context, product *models.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.products[product.ID]; exists {
		return ErrDuplicate
	}
	cp := *product
	r.m.products[product.ID] = &cp
	r.m.productOrder = append(r.m.productOrder, product.ID)
	return nil
}

func (r memoryProducts) FindByID(_ context.Context, id string) (*models.Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memoryProducts) List(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	var matched []models.Product
	for _, id := range r.m.productOrder {
		p := r.m.products[id]
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		matched = append(matched, *p)
	}

	total := int64(len(matched))
	start := min(max(filter.Skip, 0), total)
	end := total
	if filter.Limit > 0 && filter.Limit < end-start {
		end = start + filter.Limit
	}
	page := make([]models.Product, 0, end-start)
	page = append(page, matched[start:end]...)
	return page, total, nil
}

func (r memoryProducts) Update(_ context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	return &cp, nil
}

func (r memoryProducts) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.products, id)
	for i, pid := range r.m.productOrder {
		if pid == id {
			r.m.productOrder = append(r.m.productOrder[:i], r.m.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

type memoryCategories struct{ m *memory }

func (r memoryCategories) Create(_ context.Context, category *models.Category) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range r.m.categories {
		if c.Slug == category.Slug {
			return ErrDuplicate
		}
	}
	r.m.categories = append(r.m.categories, *category)
	return nil
}

func (r memoryCategories) List(_ context.Context) ([]models.Category, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]models.Category, len(r.m.categories))
	copy(out, r.m.categories)
	return out, nil
}

type memoryCarts struct{ m *memory }

func copyCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem{}, c.Items...)
	return &cp
}

func (r memoryCarts) FindByUserID(_ context.Context, userID string) (*models.Cart, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	c, ok := r.m.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCart(c), nil
}

func (r memoryCarts) GetOrCreate(_ context.Context, userID string) (*models.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c, ok := r.m.carts[userID]; ok {
		return copyCart(c), nil
	}
	now := time.Now().UTC()
	c := &models.Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.m.carts[userID] = c
	return copyCart(c), nil
}

func (r memoryCarts) ReplaceItems(_ context.Context, userID string, version int64, items []models.CartItem) (*models.Cart, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.carts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if c.Version != version {
		return nil, ErrVersionConflict
	}
	c.Items = append([]models.CartItem{}, items...)
	c.Version++
	c.UpdatedAt = time.Now().UTC()
	return copyCart(c), nil
}

type memoryOrders struct{ m *memory }

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem{}, o.Items...)
	return &cp
}

func (r memoryOrders) Create(_ context.Context, order *models.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, exists := r.m.orders[order.ID]; exists {
		return ErrDuplicate
	}
	r.m.orders[order.ID] = copyOrder(order)
	r.m.orderSeq = append(r.m.orderSeq, order.ID)
	return nil
}

func (r memoryOrders) FindByID(_ context.Context, id string) (*models.Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	o, ok := r.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyOrder(o), nil
}

func (r memoryOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	return r.list(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (r memoryOrders) ListAll(_ context.Context) ([]models.Order, error) {
	return r.list(func(*models.Order) bool { return true }), nil
}

// list returns matching orders newest first; insertion order breaks ties.
func (r memoryOrders) list(match func(*models.Order) bool) []models.Order {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := []models.Order{}
	for i := len(r.m.orderSeq) - 1; i >= 0; i-- {
		o := r.m.orders[r.m.orderSeq[i]]
		if match(o) {
			out = append(out, *copyOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r memoryOrders) Transition(_ context.Context, id string, from, to models.OrderState) (*models.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.State() != from {
		return nil, ErrVersionConflict
	}
	o.Status = to.Status
	o.PaymentStatus = to.PaymentStatus
	o.UpdatedAt = time.Now().UTC()
	return copyOrder(o), nil
}
