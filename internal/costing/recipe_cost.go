package costing

import (
	"costbook-backend/internal/models"

	"github.com/shopspring/decimal"
)

type RecipeCost struct {
	DirectCost     float64 `json:"direct_cost"`
	IndirectCosts  float64 `json:"indirect_costs"`
	TotalBatchCost float64 `json:"total_batch_cost"`
	CostPerUnit    float64 `json:"cost_per_unit"`
	ProfitPerUnit  float64 `json:"profit_per_unit"`
	MarginPercent  float64 `json:"margin_percent"`
}

// DeriveRecipeCost prices a recipe against the current ingredient snapshot.
// Ingredients that no longer exist contribute nothing.
func DeriveRecipeCost(recipe models.Recipe, ingredients []models.Ingredient) RecipeCost {
	index := indexByID(ingredients)

	var direct float64
	for _, item := range recipe.Items {
		if pos, ok := index[item.IngredientID]; ok {
			direct += item.Quantity * ingredients[pos].PricePerUnit
		}
	}

	total := direct + recipe.IndirectCosts

	var perUnit float64
	if recipe.YieldAmount > 0 {
		perUnit = total / recipe.YieldAmount
	}

	profit := recipe.SellingPrice - perUnit

	var margin float64
	if recipe.SellingPrice != 0 {
		margin = profit / recipe.SellingPrice * 100
	}

	return RecipeCost{
		DirectCost:     direct,
		IndirectCosts:  recipe.IndirectCosts,
		TotalBatchCost: total,
		CostPerUnit:    perUnit,
		ProfitPerUnit:  profit,
		MarginPercent:  margin,
	}
}

// RoundMoney rounds to cents, half away from zero.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
