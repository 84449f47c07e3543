package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/costing"
	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecipeItemRequest struct {
	IngredientID string  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
}

type RecipeRequest struct {
	Name                   string              `json:"name"`
	Items                  []RecipeItemRequest `json:"items"`
	YieldAmount            float64             `json:"yield_amount"`
	YieldUnit              string              `json:"yield_unit"`
	SellingPrice           float64             `json:"selling_price"`
	IndirectCosts          float64             `json:"indirect_costs"`
	PreparationTimeMinutes int                 `json:"preparation_time_minutes"`
}

type RecipeResponse struct {
	models.Recipe
	Cost costing.RecipeCost `json:"cost"`
}

type ProduceRequest struct {
	BatchCount float64 `json:"batch_count"`
}

type ProduceResponse struct {
	RecipeID    string              `json:"recipe_id"`
	BatchCount  float64             `json:"batch_count"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

// shortageError aborts the production transaction; the handler renders it
// as 422 with the per-ingredient shortfall.
type shortageError struct {
	shortages []costing.Shortage
}

func (e *shortageError) Error() string {
	return fmt.Sprintf("insufficient stock for %d ingredient(s)", len(e.shortages))
}

// validate checks shape and that every ingredient belongs to the owner.
func (r *RecipeRequest) validate(ctx context.Context, repo store.Repo, ownerID uint) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if r.YieldAmount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "yield_amount must be greater than zero")
	}
	if r.SellingPrice < 0 || r.IndirectCosts < 0 || r.PreparationTimeMinutes < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "amounts cannot be negative")
	}

	for i, item := range r.Items {
		if item.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: quantity must be greater than zero", i))
		}
		if _, err := repo.GetIngredient(ctx, ownerID, item.IngredientID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: unknown ingredient %q", i, item.IngredientID))
			}
			return err
		}
	}
	return nil
}

func (r *RecipeRequest) apply(rec *models.Recipe) {
	rec.Name = r.Name
	rec.YieldAmount = r.YieldAmount
	rec.YieldUnit = strings.TrimSpace(r.YieldUnit)
	rec.SellingPrice = r.SellingPrice
	rec.IndirectCosts = r.IndirectCosts
	rec.PreparationTimeMinutes = r.PreparationTimeMinutes

	rec.Items = make([]models.RecipeItem, 0, len(r.Items))
	for _, item := range r.Items {
		rec.Items = append(rec.Items, models.RecipeItem{
			IngredientID: item.IngredientID,
			Quantity:     item.Quantity,
		})
	}
}

// GET /api/recipes
func ListRecipesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		recs, err := st.ListRecipes(c.UserContext(), ownerID)
		if err != nil {
			return err
		}
		ings, err := st.ListIngredients(c.UserContext(), ownerID)
		if err != nil {
			return err
		}

		resp := make([]RecipeResponse, 0, len(recs))
		for _, r := range recs {
			resp = append(resp, RecipeResponse{Recipe: r, Cost: costing.DeriveRecipeCost(r, ings)})
		}
		return c.JSON(resp)
	}
}

// GET /api/recipes/:id
func GetRecipeHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := loadWithCost(c, st)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// GET /api/recipes/:id/cost
func RecipeCostHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := loadWithCost(c, st)
		if err != nil {
			return err
		}
		return c.JSON(resp.Cost)
	}
}

func loadWithCost(c *fiber.Ctx, st store.Store) (*RecipeResponse, error) {
	ownerID, err := auth.CurrentUserID(c)
	if err != nil {
		return nil, err
	}

	rec, err := st.GetRecipe(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return nil, err
	}
	ings, err := st.ListIngredients(c.UserContext(), ownerID)
	if err != nil {
		return nil, err
	}
	return &RecipeResponse{Recipe: *rec, Cost: costing.DeriveRecipeCost(*rec, ings)}, nil
}

// POST /api/recipes
func CreateRecipeHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body RecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		rec := models.Recipe{OwnerID: ownerID}
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			if err := body.validate(c.UserContext(), tx, ownerID); err != nil {
				return err
			}
			body.apply(&rec)
			if err := tx.CreateRecipe(c.UserContext(), &rec); err != nil {
				return err
			}
			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "recipe",
				EntityID:    rec.ID,
				Action:      models.AuditActionCreate,
				Description: "recipe created: " + rec.Name,
				After:       rec,
			})
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// PUT /api/recipes/:id
func UpdateRecipeHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body RecipeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var rec *models.Recipe
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			found, err := tx.GetRecipe(c.UserContext(), ownerID, c.Params("id"))
			if err != nil {
				return err
			}
			before := *found
			rec = found

			if err := body.validate(c.UserContext(), tx, ownerID); err != nil {
				return err
			}
			body.apply(rec)
			if err := tx.UpdateRecipe(c.UserContext(), rec); err != nil {
				return err
			}
			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "recipe",
				EntityID:    rec.ID,
				Action:      models.AuditActionUpdate,
				Description: "recipe updated: " + rec.Name,
				Before:      before,
				After:       rec,
			})
		})
		if err != nil {
			return err
		}

		return c.JSON(rec)
	}
}

// DELETE /api/recipes/:id
func DeleteRecipeHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			rec, err := tx.GetRecipe(c.UserContext(), ownerID, id)
			if err != nil {
				return err
			}
			if err := tx.DeleteRecipe(c.UserContext(), ownerID, id); err != nil {
				return err
			}
			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "recipe",
				EntityID:    id,
				Action:      models.AuditActionDelete,
				Description: "recipe deleted: " + rec.Name,
				Before:      rec,
			})
		})
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/recipes/:id/produce
//
// Reads the recipe and the owner's ingredients, deducts batch_count batches
// and writes back only the ingredients that moved. A concurrent write to any
// of them fails the version check and the whole run is rolled back (409).
func ProduceHandler(st store.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body ProduceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.BatchCount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "batch_count must be greater than zero")
		}

		resp := ProduceResponse{RecipeID: c.Params("id"), BatchCount: body.BatchCount}
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			rec, err := tx.GetRecipe(c.UserContext(), ownerID, resp.RecipeID)
			if err != nil {
				return err
			}
			ings, err := tx.ListIngredients(c.UserContext(), ownerID)
			if err != nil {
				return err
			}

			result := costing.DeductForProduction(*rec, body.BatchCount, ings)
			if !result.Success {
				return &shortageError{shortages: result.Shortages}
			}

			changed := costing.Changed(ings, result.Ingredients)
			if err := tx.SaveIngredientStock(c.UserContext(), ownerID, changed); err != nil {
				return err
			}
			resp.Ingredients = changed

			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "recipe",
				EntityID:    rec.ID,
				Action:      models.AuditActionProduce,
				Description: fmt.Sprintf("produced %g batch(es) of %s", body.BatchCount, rec.Name),
				After:       changed,
			})
		})

		var shortage *shortageError
		if errors.As(err, &shortage) {
			log.Info("production rejected",
				zap.Uint("owner_id", ownerID),
				zap.String("recipe_id", resp.RecipeID),
				zap.Int("shortages", len(shortage.shortages)),
			)
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":     "insufficient stock",
				"shortages": shortage.shortages,
			})
		}
		if err != nil {
			return err
		}

		if resp.Ingredients == nil {
			resp.Ingredients = []models.Ingredient{}
		}
		return c.JSON(resp)
	}
}
