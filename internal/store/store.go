package store

import (
	"context"
	"errors"

	"pos-service/internal/models"
)

// ErrProductNotFound is returned when a product id does not resolve.
var ErrProductNotFound = errors.New("product not found")

// ErrSaleNotFound is returned when a sale id does not resolve.
var ErrSaleNotFound = errors.New("sale not found")

// ErrStockConflict is returned when a stock adjustment would drive the
// stock count negative.
var ErrStockConflict = errors.New("stock adjustment would go negative")

// Store is the persistence contract for the catalog and the sale ledger.
// Implemented by Postgres for production and Memory for dev/tests.
type Store interface {
	// Products
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// AdjustStock applies delta to a product's stock. It fails with
	// ErrStockConflict instead of letting stock go negative.
	AdjustStock(ctx context.Context, id string, delta int) error

	// Sales
	CreateSale(ctx context.Context, s *models.Sale) error
	GetSaleByID(ctx context.Context, id string) (*models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
	UpdateSaleSize(ctx context.Context, id, size string) (*models.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	DeleteAllSales(ctx context.Context) (int64, error)

	Close() error
}
