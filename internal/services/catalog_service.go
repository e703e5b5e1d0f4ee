package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roboturkiye-backend/internal/apperrors"
	"roboturkiye-backend/internal/models"
	"roboturkiye-backend/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
	MaxPage         = 1000000
)

// ProductQuery holds the listing parameters. Zero Page and Limit take the
// defaults.
type ProductQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
	Category string `form:"category"`
	Search   string `form:"search"`
}

type ProductPage struct {
	Products    []models.Product `json:"products"`
	TotalPages  int64            `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	TotalCount  int64            `json:"total_count"`
}

type ProductInput struct {
	Name          string  `json:"name" binding:"required,min=2,max=200"`
	Description   string  `json:"description" binding:"max=1000"`
	Image         string  `json:"image"`
	OriginalPrice float64 `json:"original_price" binding:"required,gt=0"`
	CurrentPrice  float64 `json:"current_price" binding:"required,gt=0"`
	Rating        *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Category      string  `json:"category" binding:"required"`
	Badge         *string `json:"badge"`
	InStock       *bool   `json:"in_stock"`
}

type CategoryInput struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Slug        string  `json:"slug" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	log        *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, categories: categories, log: log}
}

func (s *CatalogService) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = DefaultPageSize
	}
	if err := validateInput(query); err != nil {
		return nil, err
	}

	filter := repository.ProductFilter{
		Search: strings.TrimSpace(query.Search),
		Skip:   int64(query.Page-1) * int64(query.Limit),
		Limit:  int64(query.Limit),
	}
	if category := strings.TrimSpace(query.Category); category != models.AllProductsSlug {
		filter.Category = category
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &ProductPage{
		Products:    products,
		TotalPages:  totalPages(total, filter.Limit),
		CurrentPage: query.Page,
		TotalCount:  total,
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("product")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return product, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	category := models.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Slug:        strings.ToLower(strings.TrimSpace(input.Slug)),
		Description: input.Description,
	}
	if err := s.categories.Create(ctx, &category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Category slug already exists")
		}
		return nil, apperrors.Internal(err)
	}
	s.log.Info("category created", zap.String("slug", category.Slug))
	return &category, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Description:   input.Description,
		Image:         input.Image,
		OriginalPrice: input.OriginalPrice,
		CurrentPrice:  input.CurrentPrice,
		Rating:        5,
		Category:      input.Category,
		Badge:         input.Badge,
		InStock:       true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Rating != nil {
		product.Rating = *input.Rating
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.Info("product created", zap.String("product_id", product.ID), zap.String("category", product.Category))
	return product, nil
}

// UpdateProduct applies the non-nil fields of patch.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if patch.Empty() {
		return nil, apperrors.Validation("No fields to update", nil)
	}
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	product, err := s.products.Update(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("product")
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.log.Info("product updated", zap.String("product_id", id))
	return product, nil
}

// DeleteProduct removes the product. Carts and orders that reference it are
// left alone; materialization skips the dangling lines.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("product")
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}
