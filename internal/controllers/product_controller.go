package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/services"
)

type CatalogService interface {
	ListProducts(ctx context.Context, query services.ProductQuery) (*services.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, input services.CategoryInput) (*models.Category, error)
	CreateProduct(ctx context.Context, input services.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type ProductController struct {
	catalog CatalogService
}

func NewProductController(catalog CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// GetProducts handles GET /products?page&limit&category&search.
func (pc *ProductController) GetProducts(c *gin.Context) {
	var query services.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	page, err := pc.catalog.ListProducts(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) GetCategories(c *gin.Context) {
	categories, err := pc.catalog.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (pc *ProductController) CreateCategory(c *gin.Context) {
	var req services.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	category, err := pc.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	product, err := pc.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		_ = c.Error(apperrors.Binding(err))
		return
	}
	product, err := pc.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
