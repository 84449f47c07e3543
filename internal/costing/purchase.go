// Package costing holds the inventory arithmetic: weighted-average unit cost
// on purchase, all-or-nothing stock deduction on production and recipe
// cost/margin derivation. Every function works on a caller-supplied snapshot
// and returns a new one; nothing here touches storage.
package costing

import (
	"time"

	"costbook-backend/internal/models"
)

type LineStatus string

const (
	LineApplied   LineStatus = "applied"
	LineExpense   LineStatus = "expense"   // no ingredient reference
	LineUnmatched LineStatus = "unmatched" // reference not in the snapshot
)

type LineOutcome struct {
	Index        int        `json:"index"`
	IngredientID string     `json:"ingredient_id,omitempty"`
	Status       LineStatus `json:"status"`
}

type PurchaseResult struct {
	Ingredients []models.Ingredient
	Lines       []LineOutcome
}

// ProcessPurchase folds every stock line of p into the ingredient snapshot.
// Lines are applied in order, so two lines for the same ingredient compound.
// Unknown ingredient ids are reported as unmatched and otherwise ignored.
func ProcessPurchase(p models.Purchase, ingredients []models.Ingredient, now time.Time) PurchaseResult {
	out := cloneIngredients(ingredients)
	index := indexByID(out)

	lines := make([]LineOutcome, 0, len(p.Items))
	for i, item := range p.Items {
		if item.IsExpense() {
			lines = append(lines, LineOutcome{Index: i, Status: LineExpense})
			continue
		}

		pos, ok := index[item.IngredientID]
		if !ok {
			lines = append(lines, LineOutcome{Index: i, IngredientID: item.IngredientID, Status: LineUnmatched})
			continue
		}

		out[pos] = applyPurchaseLine(out[pos], item, now)
		lines = append(lines, LineOutcome{Index: i, IngredientID: item.IngredientID, Status: LineApplied})
	}

	return PurchaseResult{Ingredients: out, Lines: lines}
}

func applyPurchaseLine(ing models.Ingredient, item models.PurchaseItem, now time.Time) models.Ingredient {
	currentValue := ing.CurrentStock * ing.PricePerUnit
	totalStock := ing.CurrentStock + item.Quantity

	// zero or negative stock afterwards: keep the old price
	if totalStock > 0 {
		ing.PricePerUnit = (currentValue + item.TotalPrice) / totalStock
	}
	ing.CurrentStock = totalStock
	ing.LastPackagePrice = item.TotalPrice
	ing.LastPackageSize = item.Quantity
	ing.UpdatedAt = now
	return ing
}

// InitialUnitPrice is the normalized price used when an ingredient is first
// entered by hand from a package label.
func InitialUnitPrice(packagePrice, packageSize float64) float64 {
	if packageSize <= 0 {
		return 0
	}
	return packagePrice / packageSize
}

// Changed returns the entries of after whose stock, price or package
// reference differ from the same id in before. Entries missing from before
// are skipped; the core never creates ingredients.
func Changed(before, after []models.Ingredient) []models.Ingredient {
	old := make(map[string]models.Ingredient, len(before))
	for _, ing := range before {
		old[ing.ID] = ing
	}

	var changed []models.Ingredient
	for _, ing := range after {
		prev, ok := old[ing.ID]
		if !ok {
			continue
		}
		if prev.CurrentStock != ing.CurrentStock ||
			prev.PricePerUnit != ing.PricePerUnit ||
			prev.LastPackagePrice != ing.LastPackagePrice ||
			prev.LastPackageSize != ing.LastPackageSize {
			changed = append(changed, ing)
		}
	}
	return changed
}

func cloneIngredients(in []models.Ingredient) []models.Ingredient {
	out := make([]models.Ingredient, len(in))
	copy(out, in)
	return out
}

func indexByID(ings []models.Ingredient) map[string]int {
	idx := make(map[string]int, len(ings))
	for i, ing := range ings {
		if _, dup := idx[ing.ID]; !dup {
			idx[ing.ID] = i
		}
	}
	return idx
}
