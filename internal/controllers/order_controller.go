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

const idempotencyHeader = "Idempotency-Key"

type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, input services.PlaceOrderInput, idempotencyKey string) (*models.Order, bool, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]models.Order, error)
	GetOrder(ctx context.Context, requester *models.User, id string) (*models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.OrderView, error)
	UpdateStatus(ctx context.Context, id string, change services.StatusChange) (*models.OrderView, error)
}

type OrderController struct {
	orders OrderService
}

func NewOrderController(orders OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// PlaceOrder answers 201 for a new order and 200 when the Idempotency-Key
// replays an earlier one.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	var req services.PlaceOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	order, created, err := oc.orders.PlaceOrder(c.Request.Context(), middleware.CurrentUser(c).ID, req, c.GetHeader(idempotencyHeader))
	if err != nil {
		_ = c.Error(err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, order)
}

func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.orders.ListOrdersForUser(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.orders.GetOrder(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req services.StatusChange
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	order, err := oc.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, order)
}
