package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/middleware"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/services"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.CartView, error)
	AddItem(ctx context.Context, userID string, input services.CartItemInput) (*models.CartView, error)
	SetItemQuantity(ctx context.Context, userID string, input services.CartQuantityInput) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*models.CartView, error)
}

type CartController struct {
	carts CartService
}

func NewCartController(carts CartService) *CartController {
	return &CartController{carts: carts}
}

func (cc *CartController) GetCart(c *gin.Context) {
	view, err := cc.carts.GetCart(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (cc *CartController) AddToCart(c *gin.Context) {
	var req services.CartItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	view, err := cc.carts.AddItem(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": view})
}

func (cc *CartController) UpdateCart(c *gin.Context) {
	var req services.CartQuantityInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	view, err := cc.carts.SetItemQuantity(c.Request.Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": view})
}

// RemoveFromCart handles DELETE /cart/remove?product_id=.
func (cc *CartController) RemoveFromCart(c *gin.Context) {
	view, err := cc.carts.RemoveItem(c.Request.Context(), middleware.CurrentUser(c).ID, c.Query("product_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": view})
}
