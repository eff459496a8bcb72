package service

import (
	"testing"
	"time"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBillsSumsMembers(t *testing.T) {
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		{
			ID: "s1", BillID: "B1", ProductName: "Polo Shirt", Size: "M", Category: "men",
			Quantity: 2, PricePerItem: 75, TotalPrice: 150,
			CustomerName: "Asha", CustomerPhone: "555-0101", CreatedBy: "staff@gmail.com", Date: date,
		},
		{
			ID: "s2", BillID: "B1", ProductName: "Denim Jacket", Size: "L", Category: "men",
			Quantity: 3, PricePerItem: 75, TotalPrice: 225,
			CustomerName: "Asha", CustomerPhone: "555-0101", CreatedBy: "staff@gmail.com", Date: date,
		},
	}

	bills := GroupBills(sales)
	require.Len(t, bills, 1)

	bill := bills[0]
	assert.Equal(t, "B1", bill.BillID)
	assert.Equal(t, []string{"s1", "s2"}, bill.SaleIDs)
	assert.Equal(t, 5, bill.TotalQuantity)
	assert.Equal(t, 375.0, bill.TotalPrice)
	assert.Equal(t, "Asha", bill.CustomerName)
	assert.Equal(t, "staff@gmail.com", bill.CreatedBy)
	require.Len(t, bill.Items, 2)
	assert.Equal(t, models.BillItem{Name: "Polo Shirt", Size: "M", Quantity: 2, Category: "men", Price: 75}, bill.Items[0])
}

func TestGroupBillsLegacyFallback(t *testing.T) {
	// Records without a bill id each form a bill of their own.
	sales := []models.Sale{
		{ID: "s1", ProductName: "Polo Shirt", Quantity: 1, TotalPrice: 100},
		{ID: "s2", ProductName: "Denim Jacket", Quantity: 2, TotalPrice: 400},
	}

	bills := GroupBills(sales)
	require.Len(t, bills, 2)
	assert.Equal(t, []string{"s1"}, bills[0].SaleIDs)
	assert.Equal(t, []string{"s2"}, bills[1].SaleIDs)
}

func TestGroupBillsSortsNewestFirst(t *testing.T) {
	older := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

	sales := []models.Sale{
		{ID: "s1", BillID: "old", Quantity: 1, TotalPrice: 100, Date: older},
		{ID: "s2", BillID: "new", Quantity: 1, TotalPrice: 200, Date: newer},
	}

	bills := GroupBills(sales)
	require.Len(t, bills, 2)
	assert.Equal(t, "new", bills[0].BillID)
	assert.Equal(t, "old", bills[1].BillID)
}

func TestGroupBillsSkipsUnkeyedRecords(t *testing.T) {
	sales := []models.Sale{
		{ID: "", BillID: "", Quantity: 3, TotalPrice: 300},
		{ID: "s1", BillID: "B1", Quantity: 1, TotalPrice: 100},
	}

	bills := GroupBills(sales)
	require.Len(t, bills, 1)
	assert.Equal(t, "B1", bills[0].BillID)
}

func TestGroupBillsEmptyInput(t *testing.T) {
	assert.Empty(t, GroupBills(nil))
}

func TestTotalAmount(t *testing.T) {
	bills := []models.Bill{
		{TotalPrice: 375},
		{TotalPrice: 125},
	}
	assert.Equal(t, 500.0, TotalAmount(bills))
}
