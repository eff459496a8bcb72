package models

import "time"

// Event types
const (
	EventTypeBillRecorded = "BILL_RECORDED"
	EventTypeSaleRecorded = "SALE_RECORDED"
	EventTypeSaleDeleted  = "SALE_DELETED"
	EventTypeSalesCleared = "SALES_CLEARED"
	EventTypeLowStock     = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleItemData represents one sold line in events
type SaleItemData struct {
	SaleID    string  `json:"sale_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// BillRecordedEvent published when a multi-item bill commits
type BillRecordedEvent struct {
	BaseEvent
	BillID       string         `json:"bill_id"`
	CustomerName string         `json:"customer_name"`
	CreatedBy    string         `json:"created_by"`
	TotalAmount  float64        `json:"total_amount"`
	Items        []SaleItemData `json:"items"`
}

// SaleRecordedEvent published when a single-item sale commits
type SaleRecordedEvent struct {
	BaseEvent
	SaleID    string  `json:"sale_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
	Profit    float64 `json:"profit"`
	CreatedBy string  `json:"created_by"`
}

// SaleDeletedEvent published when a sale is reversed
type SaleDeletedEvent struct {
	BaseEvent
	SaleID        string `json:"sale_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"quantity"`
	StockRestored bool   `json:"stock_restored"`
}

// SalesClearedEvent published when the whole history is wiped
type SalesClearedEvent struct {
	BaseEvent
	Deleted int `json:"deleted"`
}

// LowStockEvent published by the stock alert worker
type LowStockEvent struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}
