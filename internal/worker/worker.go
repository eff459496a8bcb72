package worker

import (
	"context"
	"errors"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockWorker watches sale events and raises alerts when a product's
// remaining stock drops to or below the configured threshold.
type StockWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        store.Store
	publisher    *broker.EventPublisher
	threshold    int
	logger       *zap.Logger
}

// NewStockWorker creates a new stock alert worker. publisher may be nil.
func NewStockWorker(consumer *broker.Consumer, st store.Store, publisher *broker.EventPublisher, threshold int) *StockWorker {
	w := &StockWorker{
		consumer:  consumer,
		store:     st,
		publisher: publisher,
		threshold: threshold,
		logger:    util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnBillRecorded(w.handleBillRecorded)
	eventHandler.OnSaleRecorded(w.handleSaleRecorded)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *StockWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting stock alert worker", zap.Int("threshold", w.threshold))
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *StockWorker) Stop() error {
	w.logger.Info("Stopping stock alert worker")
	return w.consumer.Close()
}

func (w *StockWorker) handleBillRecorded(ctx context.Context, event *models.BillRecordedEvent) error {
	seen := make(map[string]bool)
	for _, item := range event.Items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		if err := w.checkStock(ctx, item.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func (w *StockWorker) handleSaleRecorded(ctx context.Context, event *models.SaleRecordedEvent) error {
	return w.checkStock(ctx, event.ProductID)
}

func (w *StockWorker) checkStock(ctx context.Context, productID string) error {
	product, err := w.store.GetProductByID(ctx, productID)
	if errors.Is(err, store.ErrProductNotFound) {
		// Product removed since the sale; nothing to watch.
		return nil
	}
	if err != nil {
		return err
	}

	if product.Stock > w.threshold {
		return nil
	}

	util.LowStockAlertsTotal.Inc()
	w.logger.Warn("Low stock",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock))

	if w.publisher != nil {
		event := &models.LowStockEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeLowStock,
				Timestamp: time.Now(),
			},
			ProductID:   product.ID,
			ProductName: product.Name,
			Stock:       product.Stock,
		}
		if err := w.publisher.PublishLowStock(ctx, event); err != nil {
			w.logger.Error("Failed to publish LowStock event", zap.Error(err))
		}
	}

	return nil
}
