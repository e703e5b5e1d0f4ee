package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"roboturkiye-backend/internal/cache"
	"roboturkiye-backend/internal/credentials"
	"roboturkiye-backend/internal/events"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderPlaced
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, evt events.OrderPlaced) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	ctx       context.Context
	store     *repository.Store
	tokens    *credentials.TokenService
	auth      *AuthService
	catalog   *CatalogService
	carts     *CartService
	orders    *OrderService
	publisher *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	store := repository.NewMemoryStore()
	tokens, err := credentials.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	catalog := NewCatalogService(store.Products, store.Categories, log)
	carts := NewCartService(store.Carts, catalog, log)
	publisher := &recordingPublisher{}
	return &testEnv{
		ctx:       context.Background(),
		store:     store,
		tokens:    tokens,
		auth:      NewAuthService(store.Users, credentials.NewPasswordHasher(bcrypt.MinCost), tokens, false, log),
		catalog:   catalog,
		carts:     carts,
		orders:    NewOrderService(store.Orders, catalog, carts, cache.NewMemoryIdempotency(time.Hour), publisher, log),
		publisher: publisher,
	}
}

func (e *testEnv) product(t *testing.T, name string, price float64, inStock bool) *models.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Product{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   name + " açıklaması",
		OriginalPrice: price * 1.5,
		CurrentPrice:  price,
		Rating:        5,
		Category:      "kucuk-ev-aletleri",
		InStock:       inStock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, e.store.Products.Create(e.ctx, p))
	return p
}

func address() models.Address {
	return models.Address{
		FullName:    "Ayşe Yılmaz",
		Phone:       "+90 555 000 00 00",
		AddressLine: "Atatürk Cad. No:1",
		City:        "İstanbul",
		PostalCode:  "34000",
	}
}
