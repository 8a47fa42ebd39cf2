package services

import (
	"github.com/gerailabs/gerai-core/internal/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// reconcileLines merges locally persisted (product, quantity) pairs with the
// current catalog rows. Lines whose product no longer exists are dropped,
// quantities are clamped to [1, stock], and every surviving line is priced
// for the requesting role. Input order is preserved; duplicate product ids
// collapse into the first line with their quantities summed.
func reconcileLines(items []models.CartLineInput, products map[uuid.UUID]models.Product, role models.UserRole) models.CartView {
	merged := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))

	for _, item := range items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			continue
		}
		if _, seen := merged[id]; !seen {
			order = append(order, id)
		}
		merged[id] += item.Quantity
	}

	view := models.CartView{
		Lines: make([]models.CartLine, 0, len(order)),
		Total: decimal.Zero,
	}

	for _, id := range order {
		product, ok := products[id]
		if !ok {
			continue
		}
		if product.Stock <= 0 {
			continue
		}

		qty := merged[id]
		adjusted := false
		if qty < 1 {
			qty = 1
			adjusted = true
		}
		if qty > product.Stock {
			qty = product.Stock
			adjusted = true
		}

		unit := product.PriceFor(role)
		subtotal := unit.Mul(decimal.NewFromInt(int64(qty)))

		view.Lines = append(view.Lines, models.CartLine{
			ProductID:   product.ID,
			SKU:         product.SKU,
			Name:        product.Name,
			ImageURL:    product.ImageURL,
			UnitPrice:   unit,
			Quantity:    qty,
			Subtotal:    subtotal,
			StockLeft:   product.Stock,
			QtyAdjusted: adjusted,
		})
		view.Total = view.Total.Add(subtotal)
	}

	return view
}
