package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/controllers"
	"roboturkiye-backend/internal/logger"
	"roboturkiye-backend/internal/middleware"
)

// Deps is everything Register needs to mount the API.
type Deps struct {
	Auth        *controllers.AuthController
	Products    *controllers.ProductController
	Cart        *controllers.CartController
	Orders      *controllers.OrderController
	Gate        *middleware.Gate
	AuthLimiter *middleware.RateLimiter
}

// NewRouter returns an engine with recovery, request IDs, access logging,
// error rendering and CORS installed.
func NewRouter(log *zap.Logger, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(logger.RequestLogger(log))
	r.Use(apperrors.Middleware(log))
	r.Use(cors.New(corsConfig(corsOrigins)))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func Register(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	api.GET("/", controllers.Root)
	api.GET("/health", controllers.Health)

	auth := api.Group("/auth")
	{
		auth.POST("/register", d.AuthLimiter.Middleware(), d.Auth.Register)
		auth.POST("/login", d.AuthLimiter.Middleware(), d.Auth.Login)
		auth.GET("/profile", d.Gate.RequireUser(), d.Auth.Profile)
	}

	api.GET("/products", d.Products.GetProducts)
	api.GET("/products/:id", d.Products.GetProduct)
	api.GET("/categories", d.Products.GetCategories)

	cart := api.Group("/cart", d.Gate.RequireUser())
	{
		cart.GET("", d.Cart.GetCart)
		cart.POST("/add", d.Cart.AddToCart)
		cart.PUT("/update", d.Cart.UpdateCart)
		cart.DELETE("/remove", d.Cart.RemoveFromCart)
	}

	orders := api.Group("/orders", d.Gate.RequireUser())
	{
		orders.POST("", d.Orders.PlaceOrder)
		orders.GET("", d.Orders.GetOrders)
		orders.GET("/:id", d.Orders.GetOrder)
	}

	admin := api.Group("/admin", d.Gate.RequireUser(), d.Gate.RequireAdmin())
	{
		admin.POST("/categories", d.Products.CreateCategory)
		admin.POST("/products", d.Products.CreateProduct)
		admin.PUT("/products/:id", d.Products.UpdateProduct)
		admin.DELETE("/products/:id", d.Products.DeleteProduct)
		admin.GET("/orders", d.Orders.GetAllOrders)
		admin.PUT("/orders/:id/status", d.Orders.UpdateOrderStatus)
	}
}
