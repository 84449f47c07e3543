package costing

import "costbook-backend/internal/models"

// stockTolerance absorbs float noise such as 0.1*3 > 0.3.
const stockTolerance = 1e-9

type Shortage struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name,omitempty"`
	Required     float64 `json:"required"`
	Available    float64 `json:"available"`
	Missing      bool    `json:"missing"` // ingredient not in the snapshot
}

type ProductionResult struct {
	Success     bool
	Ingredients []models.Ingredient
	Shortages   []Shortage
}

// DeductForProduction removes batchCount batches worth of every recipe
// ingredient, or nothing at all. On failure the returned slice is the input
// slice itself and Shortages lists every ingredient that blocked the run.
func DeductForProduction(recipe models.Recipe, batchCount float64, ingredients []models.Ingredient) ProductionResult {
	if batchCount <= 0 {
		return ProductionResult{Success: false, Ingredients: ingredients}
	}

	required, order := requirements(recipe, batchCount)
	index := indexByID(ingredients)

	var shortages []Shortage
	for _, id := range order {
		need := required[id]
		pos, ok := index[id]
		if !ok {
			shortages = append(shortages, Shortage{IngredientID: id, Required: need, Missing: true})
			continue
		}
		ing := ingredients[pos]
		if ing.CurrentStock+stockTolerance < need {
			shortages = append(shortages, Shortage{
				IngredientID: id,
				Name:         ing.Name,
				Required:     need,
				Available:    ing.CurrentStock,
			})
		}
	}
	if len(shortages) > 0 {
		return ProductionResult{Success: false, Ingredients: ingredients, Shortages: shortages}
	}

	out := cloneIngredients(ingredients)
	for _, id := range order {
		pos := index[id]
		left := out[pos].CurrentStock - required[id]
		if left < 0 {
			left = 0
		}
		out[pos].CurrentStock = left
	}
	return ProductionResult{Success: true, Ingredients: out}
}

// requirements sums quantities per ingredient so a recipe listing the same
// ingredient twice is checked against its combined need.
func requirements(recipe models.Recipe, batchCount float64) (map[string]float64, []string) {
	required := make(map[string]float64, len(recipe.Items))
	order := make([]string, 0, len(recipe.Items))
	for _, item := range recipe.Items {
		if _, seen := required[item.IngredientID]; !seen {
			order = append(order, item.IngredientID)
		}
		required[item.IngredientID] += item.Quantity * batchCount
	}
	return required, order
}
