package dashboard

import (
	"testing"
	"time"

	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 10, 0, 0, 0, time.UTC)
}

func sale(d int, method models.PaymentMethod, total, profit float64, items ...models.SaleItem) models.Sale {
	return models.Sale{ID: "s", Date: day(d), PaymentMethod: method, Total: total, Profit: profit, Items: items}
}

func TestComputeStats(t *testing.T) {
	recipes := []models.Recipe{{ID: "cox", Name: "Coxinha"}, {ID: "bolo", Name: "Bolo"}}
	sales := []models.Sale{
		sale(2, models.PaymentCash, 10.10, 4, models.SaleItem{RecipeID: "cox", Quantity: 3}),
		sale(3, models.PaymentPix, 20.20, 8,
			models.SaleItem{RecipeID: "cox", Quantity: 2},
			models.SaleItem{RecipeID: "bolo", Quantity: 1}),
		sale(3, models.PaymentCash, 0.10, 0.05, models.SaleItem{RecipeID: "gone", RecipeName: "Old pie", Quantity: 9}),
		sale(20, models.PaymentCash, 100, 50, models.SaleItem{RecipeID: "bolo", Quantity: 100}),
	}
	purchases := []models.Purchase{
		{Date: day(1), Total: 30.05},
		{Date: day(2), Total: 0.15},
		{Date: day(25), Total: 1000},
	}
	ingredients := []models.Ingredient{
		{ID: "a", Name: "Flour", CurrentStock: 1, MinStockAlert: 2},
		{ID: "b", Name: "Eggs", CurrentStock: 30, MinStockAlert: 12},
	}
	rng := store.DateRange{From: day(1).Truncate(24 * time.Hour), To: day(10)}

	s := ComputeStats(sales, purchases, recipes, ingredients, rng)

	assert.Equal(t, 3, s.SalesCount)
	assert.Equal(t, 30.40, s.TotalSales)
	assert.Equal(t, 12.05, s.TotalProfit)
	assert.Equal(t, 30.20, s.TotalPurchases)
	assert.Equal(t, 10.20, s.SalesByPaymentMethod[models.PaymentCash])
	assert.Equal(t, 20.20, s.SalesByPaymentMethod[models.PaymentPix])

	require.Len(t, s.TopProducts, 3)
	assert.Equal(t, TopProduct{RecipeID: "gone", Name: "Old pie", Quantity: 9}, s.TopProducts[0])
	assert.Equal(t, "Coxinha", s.TopProducts[1].Name)
	assert.Equal(t, 5.0, s.TopProducts[1].Quantity)

	require.Len(t, s.LowStock, 1)
	assert.Equal(t, "Flour", s.LowStock[0].Name)
}

func TestComputeStats_TopFiveOnly(t *testing.T) {
	var sales []models.Sale
	for i, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		sales = append(sales, sale(1, models.PaymentDebit, 1, 0, models.SaleItem{RecipeID: id, RecipeName: id, Quantity: float64(i + 1)}))
	}

	s := ComputeStats(sales, nil, nil, nil, store.DateRange{})

	require.Len(t, s.TopProducts, 5)
	assert.Equal(t, "g", s.TopProducts[0].RecipeID)
	assert.Equal(t, "c", s.TopProducts[4].RecipeID)
	assert.NotNil(t, s.LowStock)
}
