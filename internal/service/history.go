package service

import (
	"sort"

	"pos-service/internal/models"
)

// GroupBills regroups flat sale records into per-bill views. Records
// sharing a bill id form one bill; records without one (legacy single
// sales) each form a bill of their own, keyed by the sale's id. Groups
// come back sorted by date, newest first.
func GroupBills(sales []models.Sale) []models.Bill {
	groups := make(map[string]*models.Bill)
	var order []string

	for _, sale := range sales {
		key := sale.BillID
		if key == "" {
			key = sale.ID
		}
		if key == "" {
			// A record with neither id cannot be grouped meaningfully.
			continue
		}

		group, ok := groups[key]
		if !ok {
			group = &models.Bill{
				BillID:        sale.BillID,
				Date:          sale.Date,
				CustomerName:  sale.CustomerName,
				CustomerPhone: sale.CustomerPhone,
				CreatedBy:     sale.CreatedBy,
			}
			groups[key] = group
			order = append(order, key)
		}

		group.SaleIDs = append(group.SaleIDs, sale.ID)
		group.Items = append(group.Items, models.BillItem{
			Name:     sale.ProductName,
			Size:     sale.Size,
			Quantity: sale.Quantity,
			Category: sale.Category,
			Price:    sale.PricePerItem,
		})
		group.TotalQuantity += sale.Quantity
		group.TotalPrice += sale.TotalPrice
	}

	bills := make([]models.Bill, 0, len(groups))
	for _, key := range order {
		bills = append(bills, *groups[key])
	}
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date.After(bills[j].Date)
	})
	return bills
}

// TotalAmount sums the total price over a set of bills.
func TotalAmount(bills []models.Bill) float64 {
	var total float64
	for _, b := range bills {
		total += b.TotalPrice
	}
	return total
}
