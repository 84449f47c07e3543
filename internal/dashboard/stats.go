// Package dashboard aggregates sales, purchases and stock for the owner's
// overview and renders the sales report workbook.
package dashboard

import (
	"sort"

	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/shopspring/decimal"
)

const topProductsLimit = 5

type TopProduct struct {
	RecipeID string  `json:"recipe_id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

type Stats struct {
	From                 string                           `json:"from,omitempty"`
	To                   string                           `json:"to,omitempty"`
	SalesCount           int                              `json:"sales_count"`
	TotalSales           float64                          `json:"total_sales"`
	TotalPurchases       float64                          `json:"total_purchases"`
	TotalProfit          float64                          `json:"total_profit"`
	TopProducts          []TopProduct                     `json:"top_products"`
	LowStock             []models.Ingredient              `json:"low_stock"`
	SalesByPaymentMethod map[models.PaymentMethod]float64 `json:"sales_by_payment_method"`
}

// ComputeStats only counts sales and purchases inside rng. Low stock is a
// point-in-time view and ignores the range.
func ComputeStats(sales []models.Sale, purchases []models.Purchase, recipes []models.Recipe, ingredients []models.Ingredient, rng store.DateRange) Stats {
	names := make(map[string]string, len(recipes))
	for _, r := range recipes {
		names[r.ID] = r.Name
	}

	totalSales, totalProfit, totalPurchases := decimal.Zero, decimal.Zero, decimal.Zero
	byMethod := map[models.PaymentMethod]decimal.Decimal{}
	quantities := map[string]*TopProduct{}

	stats := Stats{}
	for _, s := range sales {
		if !rng.Contains(s.Date) {
			continue
		}
		stats.SalesCount++
		total := decimal.NewFromFloat(s.Total)
		totalSales = totalSales.Add(total)
		totalProfit = totalProfit.Add(decimal.NewFromFloat(s.Profit))
		byMethod[s.PaymentMethod] = byMethod[s.PaymentMethod].Add(total)

		for _, it := range s.Items {
			tp, ok := quantities[it.RecipeID]
			if !ok {
				tp = &TopProduct{RecipeID: it.RecipeID, Name: productName(it, names)}
				quantities[it.RecipeID] = tp
			}
			tp.Quantity += it.Quantity
		}
	}

	for _, p := range purchases {
		if rng.Contains(p.Date) {
			totalPurchases = totalPurchases.Add(decimal.NewFromFloat(p.Total))
		}
	}

	stats.TotalSales = totalSales.Round(2).InexactFloat64()
	stats.TotalProfit = totalProfit.Round(2).InexactFloat64()
	stats.TotalPurchases = totalPurchases.Round(2).InexactFloat64()

	stats.SalesByPaymentMethod = make(map[models.PaymentMethod]float64, len(byMethod))
	for m, v := range byMethod {
		stats.SalesByPaymentMethod[m] = v.Round(2).InexactFloat64()
	}

	stats.TopProducts = make([]TopProduct, 0, len(quantities))
	for _, tp := range quantities {
		stats.TopProducts = append(stats.TopProducts, *tp)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		a, b := stats.TopProducts[i], stats.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(stats.TopProducts) > topProductsLimit {
		stats.TopProducts = stats.TopProducts[:topProductsLimit]
	}

	stats.LowStock = make([]models.Ingredient, 0)
	for _, ing := range ingredients {
		if ing.LowStock() {
			stats.LowStock = append(stats.LowStock, ing)
		}
	}

	return stats
}

// productName prefers the current recipe name, then the name captured at
// sale time.
func productName(it models.SaleItem, names map[string]string) string {
	if n, ok := names[it.RecipeID]; ok {
		return n
	}
	if it.RecipeName != "" {
		return it.RecipeName
	}
	return "Unknown"
}
