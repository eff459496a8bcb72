package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BillingService runs the sale transaction workflow: it validates stock
// across a whole bill, commits line items and stock decrements together,
// and reverses stock when a sale is deleted.
type BillingService struct {
	store     store.Store
	publisher *broker.EventPublisher
	logger    *zap.Logger

	// mu serializes validate+commit so two checkouts cannot both pass
	// validation against the same stale stock value.
	mu sync.Mutex
}

// NewBillingService creates a new billing service. publisher may be nil,
// in which case no events are emitted.
func NewBillingService(store store.Store, publisher *broker.EventPublisher) *BillingService {
	return &BillingService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// BillItemRequest is one requested line of a bill.
type BillItemRequest struct {
	ProductID    string   `json:"productId" binding:"required"`
	ProductName  string   `json:"productName"`
	Size         string   `json:"size"`
	Quantity     int      `json:"quantity" binding:"required,min=1"`
	PricePerItem float64  `json:"pricePerItem"`
	TotalPrice   *float64 `json:"totalPrice"`
}

// CheckoutBillRequest represents a multi-item checkout for one customer.
type CheckoutBillRequest struct {
	Items         []BillItemRequest `json:"items" binding:"required,min=1"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
}

// CheckoutSingleRequest represents a one-item checkout without a bill.
type CheckoutSingleRequest struct {
	ProductID    string   `json:"productId" binding:"required"`
	Size         string   `json:"size"`
	Quantity     int      `json:"quantity" binding:"required,min=1"`
	PricePerItem float64  `json:"pricePerItem"`
	TotalPrice   *float64 `json:"totalPrice"`
}

// CheckoutBillResponse is returned after a committed bill.
type CheckoutBillResponse struct {
	BillID string        `json:"billId"`
	Sales  []models.Sale `json:"sales"`
}

// CheckoutBill commits a whole bill or nothing at all.
func (s *BillingService) CheckoutBill(ctx context.Context, req *CheckoutBillRequest, actingUser string) (*CheckoutBillResponse, error) {
	ctx, span := util.StartSpan(ctx, "BillingService.CheckoutBill")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	billID := uuid.New().String()
	sales, err := s.commitItems(ctx, req.Items, billID, req.CustomerName, req.CustomerPhone, actingUser)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	util.BillsRecordedTotal.Inc()
	util.SalesRecordedTotal.Add(float64(len(sales)))
	s.logger.Info("Bill recorded",
		zap.String("bill_id", billID),
		zap.Int("items", len(sales)),
		zap.String("created_by", sales[0].CreatedBy))

	s.publishBillRecorded(ctx, billID, sales)

	return &CheckoutBillResponse{BillID: billID, Sales: sales}, nil
}

// CheckoutSingle commits a one-item sale. The record carries no bill id.
func (s *BillingService) CheckoutSingle(ctx context.Context, req *CheckoutSingleRequest, actingUser string) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "BillingService.CheckoutSingle")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	item := BillItemRequest{
		ProductID:    req.ProductID,
		Size:         req.Size,
		Quantity:     req.Quantity,
		PricePerItem: req.PricePerItem,
		TotalPrice:   req.TotalPrice,
	}

	sales, err := s.commitItems(ctx, []BillItemRequest{item}, "", "", "", actingUser)
	if err != nil {
		util.CheckoutsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	sale := sales[0]
	util.SalesRecordedTotal.Inc()
	s.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("profit", sale.Profit))

	if s.publisher != nil {
		event := &models.SaleRecordedEvent{
			BaseEvent: newBaseEvent(models.EventTypeSaleRecorded),
			SaleID:    sale.ID,
			ProductID: sale.ProductID,
			Quantity:  sale.Quantity,
			Total:     sale.TotalPrice,
			Profit:    sale.Profit,
			CreatedBy: sale.CreatedBy,
		}
		if err := s.publisher.PublishSaleRecorded(ctx, event); err != nil {
			s.logger.Error("Failed to publish SaleRecorded event", zap.Error(err))
		}
	}

	return &sale, nil
}

// commitItems is the two-phase core. The validation pass performs no writes
// and tracks a running per-product reservation, so two lines of the same
// product cannot jointly exceed stock. Only after every line is known good
// does the commit pass write sale records and decrement stock.
func (s *BillingService) commitItems(ctx context.Context, items []BillItemRequest, billID, customerName, customerPhone, actingUser string) ([]models.Sale, error) {
	resolved := make([]*models.Product, len(items))
	reserved := make(map[string]int)

	for i, item := range items {
		if item.Quantity < 1 {
			return nil, &ValidationError{Field: "quantity", Message: "must be at least 1"}
		}
		if item.TotalPrice != nil && *item.TotalPrice < 0 {
			return nil, &ValidationError{Field: "totalPrice", Message: "must not be negative"}
		}

		product, err := s.store.GetProductByID(ctx, item.ProductID)
		if errors.Is(err, store.ErrProductNotFound) {
			name := item.ProductName
			if name == "" {
				name = item.ProductID
			}
			return nil, fmt.Errorf("%w: %s", store.ErrProductNotFound, name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product: %w", err)
		}

		reserved[product.ID] += item.Quantity
		if reserved[product.ID] > product.Stock {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		resolved[i] = product
	}

	if customerName == "" {
		customerName = models.DefaultCustomerName
	}
	if actingUser == "" {
		actingUser = models.DefaultCreatedBy
	}

	now := time.Now()
	sales := make([]models.Sale, 0, len(items))

	for i, item := range items {
		product := resolved[i]

		total := item.PricePerItem * float64(item.Quantity)
		if item.TotalPrice != nil {
			total = *item.TotalPrice
		}
		cost := product.CostPrice * float64(item.Quantity)

		size := item.Size
		if size == "" {
			size = product.Size
		}

		sale := models.Sale{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			ProductName:   product.Name,
			Category:      product.Category,
			Model:         product.Model,
			Size:          size,
			Quantity:      item.Quantity,
			PricePerItem:  item.PricePerItem,
			CostPrice:     product.CostPrice,
			Profit:        total - cost,
			TotalPrice:    total,
			CustomerName:  customerName,
			CustomerPhone: customerPhone,
			BillID:        billID,
			CreatedBy:     actingUser,
			Date:          now,
		}

		if err := s.store.CreateSale(ctx, &sale); err != nil {
			return nil, fmt.Errorf("failed to record sale: %w", err)
		}
		if err := s.store.AdjustStock(ctx, product.ID, -item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}

		sales = append(sales, sale)
	}

	return sales, nil
}

// DeleteSale reverses a sale: stock is restored if the product still
// exists, then the record is removed. A sale whose product was deleted
// from the catalog is still removed; there is nothing to restore into.
func (s *BillingService) DeleteSale(ctx context.Context, id string) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "BillingService.DeleteSale")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sale, err := s.store.GetSaleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	restored := false
	err = s.store.AdjustStock(ctx, sale.ProductID, sale.Quantity)
	switch {
	case err == nil:
		restored = true
	case errors.Is(err, store.ErrProductNotFound):
		// Product deleted after the sale; skip restoration.
	default:
		return nil, fmt.Errorf("failed to restore stock: %w", err)
	}

	if err := s.store.DeleteSale(ctx, id); err != nil {
		return nil, err
	}

	util.SalesDeletedTotal.Inc()
	s.logger.Info("Sale deleted",
		zap.String("sale_id", id),
		zap.Bool("stock_restored", restored))

	if s.publisher != nil {
		event := &models.SaleDeletedEvent{
			BaseEvent:     newBaseEvent(models.EventTypeSaleDeleted),
			SaleID:        sale.ID,
			ProductID:     sale.ProductID,
			Quantity:      sale.Quantity,
			StockRestored: restored,
		}
		if err := s.publisher.PublishSaleDeleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish SaleDeleted event", zap.Error(err))
		}
	}

	return sale, nil
}

// DeleteAllSales wipes the ledger. This is a history wipe, not a mass
// reversal: no stock is restored for any deleted record.
func (s *BillingService) DeleteAllSales(ctx context.Context) (int64, error) {
	ctx, span := util.StartSpan(ctx, "BillingService.DeleteAllSales")
	defer span.End()

	count, err := s.store.DeleteAllSales(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear sales history: %w", err)
	}

	s.logger.Info("Sales history cleared", zap.Int64("deleted", count))

	if s.publisher != nil {
		event := &models.SalesClearedEvent{
			BaseEvent: newBaseEvent(models.EventTypeSalesCleared),
			Deleted:   int(count),
		}
		if err := s.publisher.PublishSalesCleared(ctx, event); err != nil {
			s.logger.Error("Failed to publish SalesCleared event", zap.Error(err))
		}
	}

	return count, nil
}

// UpdateSaleSize changes a sale's size snapshot post-hoc. Nothing else is
// recomputed.
func (s *BillingService) UpdateSaleSize(ctx context.Context, id, size string) (*models.Sale, error) {
	if size == "" {
		return nil, &ValidationError{Field: "size", Message: "must not be empty"}
	}
	return s.store.UpdateSaleSize(ctx, id, size)
}

// ListSales retrieves all sale records, newest first.
func (s *BillingService) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.store.ListSales(ctx)
}

// ListBills retrieves the ledger regrouped into per-bill views.
func (s *BillingService) ListBills(ctx context.Context) ([]models.Bill, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	return GroupBills(sales), nil
}

func (s *BillingService) publishBillRecorded(ctx context.Context, billID string, sales []models.Sale) {
	if s.publisher == nil {
		return
	}

	items := make([]models.SaleItemData, 0, len(sales))
	var total float64
	for _, sale := range sales {
		items = append(items, models.SaleItemData{
			SaleID:    sale.ID,
			ProductID: sale.ProductID,
			Quantity:  sale.Quantity,
			Total:     sale.TotalPrice,
		})
		total += sale.TotalPrice
	}

	event := &models.BillRecordedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeBillRecorded),
		BillID:       billID,
		CustomerName: sales[0].CustomerName,
		CreatedBy:    sales[0].CreatedBy,
		TotalAmount:  total,
		Items:        items,
	}
	if err := s.publisher.PublishBillRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish BillRecorded event", zap.Error(err))
	}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrValidation):
		return "invalid_items"
	default:
		return "store_error"
	}
}
