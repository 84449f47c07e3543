package inventory

import (
	"fmt"
	"strings"
	"time"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/models"
	"costbook-backend/internal/query"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const wasteTolerance = 1e-9

type CreateWasteRequest struct {
	Quantity float64 `json:"quantity"`
	Note     string  `json:"note"`
	Date     string  `json:"date"` // YYYY-MM-DD, defaults to today
}

type WasteResponse struct {
	Entry      models.WasteEntry `json:"entry"`
	Ingredient models.Ingredient `json:"ingredient"`
}

// GET /api/waste-entries?from&to
func ListWasteEntriesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		rng, err := query.DateRange(c)
		if err != nil {
			return err
		}

		entries, err := st.ListWasteEntries(c.UserContext(), ownerID, rng)
		if err != nil {
			return err
		}
		if entries == nil {
			entries = []models.WasteEntry{}
		}
		return c.JSON(entries)
	}
}

// POST /api/ingredients/:id/waste
//
// Removes quantity from stock; losing more than what is on hand is
// rejected with 422.
func CreateWasteHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateWasteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.Note = strings.TrimSpace(body.Note)
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be greater than zero")
		}
		if body.Note == "" {
			return fiber.NewError(fiber.StatusBadRequest, "note is required")
		}

		date := time.Now()
		if body.Date != "" {
			d, err := time.ParseInLocation(query.DateLayout, body.Date, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			date = d
		}

		var resp WasteResponse
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			ctx := c.UserContext()

			ing, err := tx.GetIngredient(ctx, ownerID, c.Params("id"))
			if err != nil {
				return err
			}
			if ing.CurrentStock+wasteTolerance < body.Quantity {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("only %g %s of %s in stock", ing.CurrentStock, ing.Unit, ing.Name))
			}
			before := *ing

			left := ing.CurrentStock - body.Quantity
			if left < 0 {
				left = 0
			}
			ing.CurrentStock = left

			updated := []models.Ingredient{*ing}
			if err := tx.SaveIngredientStock(ctx, ownerID, updated); err != nil {
				return err
			}

			entry := models.WasteEntry{
				OwnerID:      ownerID,
				IngredientID: ing.ID,
				Date:         date,
				Quantity:     body.Quantity,
				Note:         body.Note,
			}
			if err := tx.CreateWasteEntry(ctx, &entry); err != nil {
				return err
			}
			resp = WasteResponse{Entry: entry, Ingredient: updated[0]}

			return audit.WriteLog(ctx, tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "ingredient",
				EntityID:    ing.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("waste of %g %s %s: %s", body.Quantity, ing.Unit, ing.Name, body.Note),
				Before:      before,
				After:       updated[0],
			})
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}
