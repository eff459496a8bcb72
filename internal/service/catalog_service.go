package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService handles product catalog management
type CatalogService struct {
	store  store.Store
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store store.Store) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateProductRequest represents a request to add a product
type CreateProductRequest struct {
	Name      string  `json:"name" binding:"required"`
	Category  string  `json:"category" binding:"required"`
	Model     string  `json:"model" binding:"required"`
	Size      string  `json:"size" binding:"required"`
	CostPrice float64 `json:"costPrice"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

// UpdateProductRequest carries the fields to change; nil means keep.
type UpdateProductRequest struct {
	Name      *string  `json:"name"`
	Category  *string  `json:"category"`
	Model     *string  `json:"model"`
	Size      *string  `json:"size"`
	CostPrice *float64 `json:"costPrice"`
	Price     *float64 `json:"price"`
	Stock     *int     `json:"stock"`
}

// CreateProduct validates and stores a new catalog entry
func (s *CatalogService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	product := &models.Product{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.ToLower(strings.TrimSpace(req.Category)),
		Model:     strings.TrimSpace(req.Model),
		Size:      strings.TrimSpace(req.Size),
		CostPrice: req.CostPrice,
		Price:     req.Price,
		Stock:     req.Stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock))

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.store.GetProductByID(ctx, id)
}

// ListProducts retrieves the whole catalog
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// UpdateProduct applies a partial update to a catalog entry
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		product.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Model != nil {
		product.Model = strings.TrimSpace(*req.Model)
	}
	if req.Size != nil {
		product.Size = strings.TrimSpace(*req.Size)
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	product.UpdatedAt = time.Now()

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID))
	return product, nil
}

// DeleteProduct removes a catalog entry. Existing sale records keep their
// snapshots and are not touched.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !models.ValidCategory(p.Category) {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("%q is not an allowed category", p.Category)}
	}
	if p.Model == "" {
		return &ValidationError{Field: "model", Message: "must not be empty"}
	}
	if p.Size == "" {
		return &ValidationError{Field: "size", Message: "must not be empty"}
	}
	if p.CostPrice < 0 {
		return &ValidationError{Field: "costPrice", Message: "must not be negative"}
	}
	if p.Price < 0 {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "must not be negative"}
	}
	return nil
}
