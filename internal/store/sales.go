package store

import (
	"context"
	"database/sql"

	"pos-service/internal/models"
)

// CreateSale appends a line item to the ledger
func (s *Postgres) CreateSale(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (id, product_id, product_name, category, model, size, quantity,
			price_per_item, cost_price, profit, total_price, customer_name, customer_phone,
			bill_id, created_by, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := s.db.ExecContext(ctx, query,
		sale.ID, sale.ProductID, sale.ProductName, sale.Category, sale.Model, sale.Size,
		sale.Quantity, sale.PricePerItem, sale.CostPrice, sale.Profit, sale.TotalPrice,
		sale.CustomerName, sale.CustomerPhone, sale.BillID, sale.CreatedBy, sale.Date)
	return err
}

// GetSaleByID retrieves a sale by ID
func (s *Postgres) GetSaleByID(ctx context.Context, id string) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, "SELECT * FROM sales WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListSales retrieves all sales, newest first
func (s *Postgres) ListSales(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.SelectContext(ctx, &sales, "SELECT * FROM sales ORDER BY date DESC")
	return sales, err
}

// UpdateSaleSize changes only the size snapshot of a sale
func (s *Postgres) UpdateSaleSize(ctx context.Context, id, size string) (*models.Sale, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE sales SET size = $1 WHERE id = $2", size, id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSaleNotFound
	}
	return s.GetSaleByID(ctx, id)
}

// DeleteSale removes a single sale record
func (s *Postgres) DeleteSale(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSaleNotFound
	}
	return nil
}

// DeleteAllSales wipes the ledger and reports how many rows went away
func (s *Postgres) DeleteAllSales(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sales")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
