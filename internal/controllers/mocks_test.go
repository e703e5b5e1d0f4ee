package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/services"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*services.AuthResult, error) {
	args := m.Called(ctx, input)
	if res := args.Get(0); res != nil {
		return res.(*services.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input services.LoginInput) (*services.AuthResult, error) {
	args := m.Called(ctx, input)
	if res := args.Get(0); res != nil {
		return res.(*services.AuthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalogService struct{ mock.Mock }

func (m *MockCatalogService) ListProducts(ctx context.Context, query services.ProductQuery) (*services.ProductPage, error) {
	args := m.Called(ctx, query)
	if res := args.Get(0); res != nil {
		return res.(*services.ProductPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, input services.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, input)
	if res := args.Get(0); res != nil {
		return res.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, input services.ProductInput) (*models.Product, error) {
	args := m.Called(ctx, input)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	args := m.Called(ctx, id, patch)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) GetCart(ctx context.Context, userID string) (*models.CartView, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.(*models.CartView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID string, input services.CartItemInput) (*models.CartView, error) {
	args := m.Called(ctx, userID, input)
	if res := args.Get(0); res != nil {
		return res.(*models.CartView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartService) SetItemQuantity(ctx context.Context, userID string, input services.CartQuantityInput) (*models.CartView, error) {
	args := m.Called(ctx, userID, input)
	if res := args.Get(0); res != nil {
		return res.(*models.CartView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID string) (*models.CartView, error) {
	args := m.Called(ctx, userID, productID)
	if res := args.Get(0); res != nil {
		return res.(*models.CartView), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID string, input services.PlaceOrderInput, key string) (*models.Order, bool, error) {
	args := m.Called(ctx, userID, input, key)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *MockOrderService) ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, requester *models.User, id string) (*models.Order, error) {
	args := m.Called(ctx, requester, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) ListAllOrders(ctx context.Context) ([]models.OrderView, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]models.OrderView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, change services.StatusChange) (*models.OrderView, error) {
	args := m.Called(ctx, id, change)
	if res := args.Get(0); res != nil {
		return res.(*models.OrderView), args.Error(1)
	}
	return nil, args.Error(1)
}
