package inventory

import (
	"strings"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/costing"
	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreateIngredientRequest struct {
	Name          string      `json:"name"`
	Unit          models.Unit `json:"unit"`
	PackagePrice  float64     `json:"package_price"`
	PackageSize   float64     `json:"package_size"`
	CurrentStock  float64     `json:"current_stock"`
	MinStockAlert float64     `json:"min_stock_alert"`
}

// UpdateIngredientRequest: prices only move through purchases, so they are
// not editable here.
type UpdateIngredientRequest struct {
	Name          *string      `json:"name"`
	Unit          *models.Unit `json:"unit"`
	CurrentStock  *float64     `json:"current_stock"`
	MinStockAlert *float64     `json:"min_stock_alert"`
	Version       *int         `json:"version"`
}

// GET /api/ingredients
func ListIngredientsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		ings, err := st.ListIngredients(c.UserContext(), ownerID)
		if err != nil {
			return err
		}
		if ings == nil {
			ings = []models.Ingredient{}
		}
		return c.JSON(ings)
	}
}

// GET /api/ingredients/low-stock
func LowStockHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		ings, err := st.ListIngredients(c.UserContext(), ownerID)
		if err != nil {
			return err
		}

		low := make([]models.Ingredient, 0)
		for _, ing := range ings {
			if ing.LowStock() {
				low = append(low, ing)
			}
		}
		return c.JSON(low)
	}
}

// GET /api/ingredients/:id
func GetIngredientHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		ing, err := st.GetIngredient(c.UserContext(), ownerID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(ing)
	}
}

// POST /api/ingredients
func CreateIngredientHandler(st store.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if !body.Unit.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unit must be one of kg, g, l, ml, un")
		}
		if body.PackagePrice < 0 || body.PackageSize < 0 || body.CurrentStock < 0 || body.MinStockAlert < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "amounts cannot be negative")
		}

		ing := models.Ingredient{
			OwnerID:          ownerID,
			Name:             body.Name,
			Unit:             body.Unit,
			PricePerUnit:     costing.InitialUnitPrice(body.PackagePrice, body.PackageSize),
			LastPackagePrice: body.PackagePrice,
			LastPackageSize:  body.PackageSize,
			CurrentStock:     body.CurrentStock,
			MinStockAlert:    body.MinStockAlert,
		}

		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			if err := tx.CreateIngredient(c.UserContext(), &ing); err != nil {
				return err
			}
			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionCreate,
				Description: "ingredient created: " + ing.Name,
				After:       ing,
			})
		})
		if err != nil {
			return err
		}

		log.Debug("ingredient created", zap.Uint("owner_id", ownerID), zap.String("ingredient_id", ing.ID))
		return c.Status(fiber.StatusCreated).JSON(ing)
	}
}

// PUT /api/ingredients/:id
func UpdateIngredientHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body UpdateIngredientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		var updated models.Ingredient
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			ing, err := tx.GetIngredient(c.UserContext(), ownerID, c.Params("id"))
			if err != nil {
				return err
			}
			before := *ing

			// a client that sends the version it read gets a 409 if someone
			// else (or a purchase) wrote in between
			if body.Version != nil {
				ing.Version = *body.Version
			}
			if body.Name != nil {
				name := strings.TrimSpace(*body.Name)
				if name == "" {
					return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
				}
				ing.Name = name
			}
			if body.Unit != nil {
				if !body.Unit.Valid() {
					return fiber.NewError(fiber.StatusBadRequest, "unit must be one of kg, g, l, ml, un")
				}
				ing.Unit = *body.Unit
			}
			if body.CurrentStock != nil {
				if *body.CurrentStock < 0 {
					return fiber.NewError(fiber.StatusBadRequest, "current_stock cannot be negative")
				}
				ing.CurrentStock = *body.CurrentStock
			}
			if body.MinStockAlert != nil {
				if *body.MinStockAlert < 0 {
					return fiber.NewError(fiber.StatusBadRequest, "min_stock_alert cannot be negative")
				}
				ing.MinStockAlert = *body.MinStockAlert
			}

			if err := tx.UpdateIngredient(c.UserContext(), ing); err != nil {
				return err
			}
			updated = *ing

			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionUpdate,
				Description: "ingredient updated: " + ing.Name,
				Before:      before,
				After:       updated,
			})
		})
		if err != nil {
			return err
		}

		return c.JSON(updated)
	}
}

// DELETE /api/ingredients/:id
func DeleteIngredientHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			ing, err := tx.GetIngredient(c.UserContext(), ownerID, id)
			if err != nil {
				return err
			}
			if err := tx.DeleteIngredient(c.UserContext(), ownerID, id); err != nil {
				return err
			}
			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "ingredient",
				EntityID:    id,
				Action:      models.AuditActionDelete,
				Description: "ingredient deleted: " + ing.Name,
				Before:      ing,
			})
		})
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
