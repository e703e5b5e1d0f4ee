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

type AuthService interface {
	Register(ctx context.Context, input services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, input services.LoginInput) (*services.AuthResult, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type AuthController struct {
	auth AuthService
}

func NewAuthController(auth AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	res, err := ac.auth.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	res, err := ac.auth.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Profile re-reads the caller so a concurrently removed account yields 404.
func (ac *AuthController) Profile(c *gin.Context) {
	user, err := ac.auth.Profile(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}
