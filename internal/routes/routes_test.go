package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"roboturkiye-backend/internal/cache"
	"roboturkiye-backend/internal/controllers"
	"roboturkiye-backend/internal/credentials"
	"roboturkiye-backend/internal/events"
	"roboturkiye-backend/internal/middleware"
	"roboturkiye-backend/internal/repository"
	"roboturkiye-backend/internal/seed"
	"roboturkiye-backend/internal/services"
)

type APISuite struct {
	suite.Suite
	router *gin.Engine
	store  *repository.Store
	user   string
	admin  string
}

func TestAPISuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.store = repository.NewMemoryStore()
	s.Require().NoError(seed.Run(context.Background(), s.store, zap.NewNop()))
	auth := s.buildRouter(false)

	_, err := auth.CreateAdmin(context.Background(), "Admin", "admin@roboturkiye.com", "admin123")
	s.Require().NoError(err)
	s.admin = s.login("admin@roboturkiye.com", "admin123")

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ayşe", "email": "ayse@example.com", "password": "secret1",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.user = s.body(w)["access_token"].(string)
}

// buildRouter wires a fresh router over s.store.
func (s *APISuite) buildRouter(allowAdminSignup bool) *services.AuthService {
	log := zap.NewNop()
	tokens, err := credentials.NewTokenService("api-secret", time.Hour)
	s.Require().NoError(err)
	auth := services.NewAuthService(s.store.Users, credentials.NewPasswordHasher(bcrypt.MinCost), tokens, allowAdminSignup, log)
	catalog := services.NewCatalogService(s.store.Products, s.store.Categories, log)
	carts := services.NewCartService(s.store.Carts, catalog, log)
	orders := services.NewOrderService(s.store.Orders, catalog, carts, cache.NewMemoryIdempotency(time.Hour), events.NopPublisher{}, log)

	s.router = NewRouter(log, []string{"*"})
	Register(s.router, Deps{
		Auth:        controllers.NewAuthController(auth),
		Products:    controllers.NewProductController(catalog),
		Cart:        controllers.NewCartController(carts),
		Orders:      controllers.NewOrderController(orders),
		Gate:        middleware.NewGate(tokens, s.store.Users),
		AuthLimiter: middleware.NewRateLimiter(600, 100),
	})
	return auth
}

func (s *APISuite) login(email, password string) string {
	w := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return s.body(w)["access_token"].(string)
}

func (s *APISuite) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) body(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *APISuite) firstProductID() string {
	w := s.do(http.MethodGet, "/api/products?limit=1", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	products := s.body(w)["products"].([]interface{})
	return products[0].(map[string]interface{})["_id"].(string)
}

func (s *APISuite) TestHealth() {
	w := s.do(http.MethodGet, "/api/", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("RoboTurkiye API is running!", s.body(w)["message"])
	s.NotEmpty(w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("healthy", s.body(w)["status"])
}

func (s *APISuite) TestCatalogListing() {
	w := s.do(http.MethodGet, "/api/products", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	page := s.body(w)
	s.EqualValues(12, page["total_count"])
	s.EqualValues(1, page["total_pages"])
	s.EqualValues(1, page["current_page"])
	s.Len(page["products"], 12)

	w = s.do(http.MethodGet, "/api/products?page=3&limit=5", "", nil)
	page = s.body(w)
	s.EqualValues(3, page["total_pages"])
	s.Len(page["products"], 2)

	w = s.do(http.MethodGet, "/api/products?category=tum-urunler", "", nil)
	s.EqualValues(12, s.body(w)["total_count"])

	w = s.do(http.MethodGet, "/api/products?category=spor", "", nil)
	s.EqualValues(1, s.body(w)["total_count"])

	w = s.do(http.MethodGet, "/api/products?search=KAHVE", "", nil)
	s.EqualValues(1, s.body(w)["total_count"])

	w = s.do(http.MethodGet, "/api/categories", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var categories []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &categories))
	s.Len(categories, 5)
	s.Equal("tum-urunler", categories[0]["slug"])
}

func (s *APISuite) TestAuthErrors() {
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ayşe", "email": "ayse@example.com", "password": "another1",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Email already registered", s.body(w)["error"])

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ayse@example.com", "password": "wrong-pass"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/auth/profile", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Authorization header missing", s.body(w)["error"])

	w = s.do(http.MethodGet, "/api/auth/profile", s.user, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("user", s.body(w)["role"])
}

func (s *APISuite) TestAdminProductLifecycle() {
	w := s.do(http.MethodPost, "/api/admin/products", s.admin, map[string]interface{}{
		"name": "robo Akıllı Süpürge", "original_price": 1000, "current_price": 800, "category": "kucuk-ev-aletleri",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	created := s.body(w)
	id := created["_id"].(string)
	s.EqualValues(800, created["current_price"])
	s.EqualValues(5, created["rating"])
	s.Equal(true, created["in_stock"])

	w = s.do(http.MethodGet, "/api/products", "", nil)
	s.EqualValues(13, s.body(w)["total_count"])

	w = s.do(http.MethodPut, "/api/admin/products/"+id, s.admin, map[string]interface{}{"current_price": 750})
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(750, s.body(w)["current_price"])

	w = s.do(http.MethodDelete, "/api/admin/products/"+id, s.admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Product deleted successfully", s.body(w)["message"])

	w = s.do(http.MethodGet, "/api/products/"+id, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Product not found", s.body(w)["error"])

	w = s.do(http.MethodDelete, "/api/admin/products/"+id, s.admin, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestAdminSignupDisabledByDefault() {
	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Mallory", "email": "mallory@example.com", "password": "secret1", "role": "admin",
	})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Admin registration is disabled", s.body(w)["error"])

	w = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "mallory@example.com", "password": "secret1"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestRegisteredAdminDeletesProduct() {
	s.buildRouter(true)

	w := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Mehmet", "email": "mehmet@roboturkiye.com", "password": "secret1", "role": "admin",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	admin := s.body(w)["access_token"].(string)

	w = s.do(http.MethodGet, "/api/auth/profile", admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("admin", s.body(w)["role"])

	w = s.do(http.MethodPost, "/api/admin/products", admin, map[string]interface{}{
		"name": "Robot Süpürge", "original_price": 1000, "current_price": 800, "category": "kucuk-ev-aletleri",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	id := s.body(w)["_id"].(string)

	w = s.do(http.MethodDelete, "/api/admin/products/"+id, admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/products/"+id, "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestAdminCategories() {
	w := s.do(http.MethodPost, "/api/admin/categories", s.admin, map[string]string{"name": "Bahçe", "slug": "bahce"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/admin/categories", s.admin, map[string]string{"name": "Oyuncak 2", "slug": "oyuncak"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Category slug already exists", s.body(w)["error"])

	w = s.do(http.MethodPost, "/api/admin/categories", s.user, map[string]string{"name": "Sneaky", "slug": "sneaky"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/categories", "", nil)
	var categories []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &categories))
	s.Len(categories, 6)
	s.Equal("bahce", categories[5]["slug"])
}

func (s *APISuite) TestAdminRoutesRejectUsers() {
	w := s.do(http.MethodPost, "/api/admin/products", s.user, map[string]interface{}{
		"name": "Sneaky", "original_price": 10, "current_price": 5, "category": "oyuncak",
	})
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Admin access required", s.body(w)["error"])

	w = s.do(http.MethodDelete, "/api/admin/products/"+s.firstProductID(), s.user, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/products", "", nil)
	s.EqualValues(12, s.body(w)["total_count"])

	w = s.do(http.MethodGet, "/api/admin/orders", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestCartFlow() {
	productID := s.firstProductID()

	w := s.do(http.MethodGet, "/api/cart", s.user, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(0, s.body(w)["total"])

	w = s.do(http.MethodPost, "/api/cart/add", s.user, map[string]interface{}{"product_id": productID, "quantity": 2})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.EqualValues(10638, s.body(w)["cart"].(map[string]interface{})["total"])

	w = s.do(http.MethodPost, "/api/cart/add", s.user, map[string]interface{}{"product_id": productID, "quantity": 1})
	cart := s.body(w)["cart"].(map[string]interface{})
	s.EqualValues(3, cart["items"].([]interface{})[0].(map[string]interface{})["quantity"])

	w = s.do(http.MethodPut, "/api/cart/update", s.user, map[string]interface{}{"product_id": productID, "quantity": 1})
	s.Equal(http.StatusOK, w.Code)
	s.EqualValues(5319, s.body(w)["cart"].(map[string]interface{})["total"])

	w = s.do(http.MethodPost, "/api/cart/add", s.user, map[string]interface{}{"product_id": "missing", "quantity": 1})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/cart/remove?product_id="+productID, s.user, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Item removed from cart", s.body(w)["message"])

	w = s.do(http.MethodDelete, "/api/cart/remove?product_id="+productID, s.user, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestOrderFlow() {
	productID := s.firstProductID()
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/cart/add", s.user,
		map[string]interface{}{"product_id": productID, "quantity": 1}).Code)

	req := map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": productID, "quantity": 1}},
		"shipping_address": map[string]string{
			"full_name": "Ayşe Yılmaz", "phone": "5550000000", "address_line": "Moda Cd. 5",
			"city": "İstanbul", "postal_code": "34710",
		},
		"payment_method": "stripe",
	}
	w := s.do(http.MethodPost, "/api/orders", s.user, req, "Idempotency-Key", "checkout-1")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	order := s.body(w)
	orderID := order["_id"].(string)
	s.Equal("pending", order["status"])
	s.Equal("pending", order["payment_status"])
	s.EqualValues(5319, order["total"])
	s.Equal("Turkey", order["shipping_address"].(map[string]interface{})["country"])

	w = s.do(http.MethodPost, "/api/orders", s.user, req, "Idempotency-Key", "checkout-1")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(orderID, s.body(w)["_id"])

	w = s.do(http.MethodGet, "/api/cart", s.user, nil)
	s.Empty(s.body(w)["items"])

	w = s.do(http.MethodGet, "/api/orders", s.user, nil)
	var mine []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &mine))
	s.Len(mine, 1)

	w = s.do(http.MethodGet, "/api/orders/"+orderID, s.admin, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/admin/orders", s.admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var all []map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &all))
	s.Require().Len(all, 1)
	line := all[0]["items"].([]interface{})[0].(map[string]interface{})
	s.Equal(productID, line["product"].(map[string]interface{})["_id"])

	w = s.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", s.admin, map[string]string{"status": "paid", "payment_status": "completed"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("paid", s.body(w)["status"])

	w = s.do(http.MethodPut, "/api/admin/orders/"+orderID+"/status", s.admin, map[string]string{"status": "pending"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPut, "/api/admin/orders/missing/status", s.admin, map[string]string{"status": "paid"})
	s.Equal(http.StatusNotFound, w.Code)
}
