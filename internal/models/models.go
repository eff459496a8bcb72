package models

import "time"

// Product categories. Values are stored lowercase; writes are normalized.
const (
	CategoryBoys   = "boys"
	CategoryGirls  = "girls"
	CategoryMen    = "men"
	CategoryWomen  = "women"
	CategoryCombo1 = "combo 1"
	CategoryCombo2 = "combo 2"
	CategoryCombo3 = "combo 3"
	CategoryCombo4 = "combo 4"
)

// Categories lists every allowed product category.
var Categories = []string{
	CategoryBoys, CategoryGirls, CategoryMen, CategoryWomen,
	CategoryCombo1, CategoryCombo2, CategoryCombo3, CategoryCombo4,
}

// ValidCategory reports whether c is an allowed category value.
// Callers must lowercase c first.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product represents a catalog item with its current stock.
type Product struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Model     string    `db:"model" json:"model"`
	Size      string    `db:"size" json:"size"`
	CostPrice float64   `db:"cost_price" json:"costPrice"`
	Price     float64   `db:"price" json:"price"`
	Stock     int       `db:"stock" json:"stock"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Sale is one line item of a transaction. Product name, category, model and
// size are snapshots taken at sale time: the sale stays meaningful after the
// catalog entry is deleted.
type Sale struct {
	ID            string    `db:"id" json:"id"`
	ProductID     string    `db:"product_id" json:"productId"`
	ProductName   string    `db:"product_name" json:"productName"`
	Category      string    `db:"category" json:"category"`
	Model         string    `db:"model" json:"model"`
	Size          string    `db:"size" json:"size"`
	Quantity      int       `db:"quantity" json:"quantity"`
	PricePerItem  float64   `db:"price_per_item" json:"pricePerItem"`
	CostPrice     float64   `db:"cost_price" json:"costPrice"`
	Profit        float64   `db:"profit" json:"profit"`
	TotalPrice    float64   `db:"total_price" json:"totalPrice"`
	CustomerName  string    `db:"customer_name" json:"customerName"`
	CustomerPhone string    `db:"customer_phone" json:"customerPhone"`
	BillID        string    `db:"bill_id" json:"billId"`
	CreatedBy     string    `db:"created_by" json:"createdBy"`
	Date          time.Time `db:"date" json:"date"`
}

// Defaults applied when a sale is recorded without these fields.
const (
	DefaultCustomerName = "Walk-in"
	DefaultCreatedBy    = "System"
)

// BillItem is one product line inside an aggregated bill view.
type BillItem struct {
	Name     string  `json:"name"`
	Size     string  `json:"size"`
	Quantity int     `json:"qty"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// Bill is the derived per-transaction view of the sale ledger. It is
// recomputed on every read and never persisted.
type Bill struct {
	BillID        string     `json:"billId"`
	SaleIDs       []string   `json:"saleIds"`
	Date          time.Time  `json:"date"`
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"`
	Items         []BillItem `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalPrice    float64    `json:"totalPrice"`
	CreatedBy     string     `json:"createdBy"`
}
