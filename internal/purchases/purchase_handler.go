package purchases

import (
	"fmt"
	"strings"
	"time"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/costing"
	"costbook-backend/internal/models"
	"costbook-backend/internal/query"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PurchaseItemRequest struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
}

type CreatePurchaseRequest struct {
	Date  string                `json:"date"` // YYYY-MM-DD, defaults to today
	Notes string                `json:"notes"`
	Items []PurchaseItemRequest `json:"items"`
}

type CreatePurchaseResponse struct {
	Purchase    models.Purchase       `json:"purchase"`
	Ingredients []models.Ingredient   `json:"ingredients"` // only the ones that changed
	Lines       []costing.LineOutcome `json:"lines"`
}

func (r *CreatePurchaseRequest) toPurchase(ownerID uint, now time.Time) (models.Purchase, error) {
	p := models.Purchase{OwnerID: ownerID, Date: now, Notes: strings.TrimSpace(r.Notes)}
	if r.Date != "" {
		d, err := time.ParseInLocation(query.DateLayout, r.Date, time.Local)
		if err != nil {
			return p, fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		p.Date = d
	}

	if len(r.Items) == 0 {
		return p, fiber.NewError(fiber.StatusBadRequest, "at least one item is required")
	}

	total := decimal.Zero
	for i, it := range r.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" && it.IngredientID == "" {
			return p, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: name or ingredient_id is required", i))
		}
		if it.Quantity <= 0 {
			return p, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: quantity must be greater than zero", i))
		}
		if it.TotalPrice < 0 {
			return p, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: total_price cannot be negative", i))
		}

		p.Items = append(p.Items, models.PurchaseItem{
			IngredientID: strings.TrimSpace(it.IngredientID),
			Name:         name,
			Unit:         strings.TrimSpace(it.Unit),
			Quantity:     it.Quantity,
			TotalPrice:   it.TotalPrice,
		})
		total = total.Add(decimal.NewFromFloat(it.TotalPrice))
	}
	p.Total = total.Round(2).InexactFloat64()
	return p, nil
}

// GET /api/purchases?from&to
func ListPurchasesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		rng, err := query.DateRange(c)
		if err != nil {
			return err
		}

		list, err := st.ListPurchases(c.UserContext(), ownerID, rng)
		if err != nil {
			return err
		}
		if list == nil {
			list = []models.Purchase{}
		}
		return c.JSON(list)
	}
}

// GET /api/purchases/:id
func GetPurchaseHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		p, err := st.GetPurchase(c.UserContext(), ownerID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// POST /api/purchases
//
// Stores the purchase and folds its stock lines into the ingredients with
// weighted-average costing, all in one transaction.
func CreatePurchaseHandler(st store.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		now := time.Now()
		p, err := body.toPurchase(ownerID, now)
		if err != nil {
			return err
		}

		var resp CreatePurchaseResponse
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			if err := tx.CreatePurchase(c.UserContext(), &p); err != nil {
				return err
			}

			ings, err := tx.ListIngredients(c.UserContext(), ownerID)
			if err != nil {
				return err
			}

			result := costing.ProcessPurchase(p, ings, now)
			changed := costing.Changed(ings, result.Ingredients)
			if err := tx.SaveIngredientStock(c.UserContext(), ownerID, changed); err != nil {
				return err
			}

			resp = CreatePurchaseResponse{Purchase: p, Ingredients: changed, Lines: result.Lines}

			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "purchase",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("purchase of %d item(s), total %.2f", len(p.Items), p.Total),
				After:       resp,
			})
		})
		if err != nil {
			return err
		}

		for _, l := range resp.Lines {
			if l.Status == costing.LineUnmatched {
				log.Warn("purchase line references unknown ingredient",
					zap.String("purchase_id", p.ID),
					zap.Int("line", l.Index),
					zap.String("ingredient_id", l.IngredientID),
				)
			}
		}

		if resp.Ingredients == nil {
			resp.Ingredients = []models.Ingredient{}
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// DELETE /api/purchases/:id
//
// Removes the record only; stock and prices already folded in stay as they are.
func DeletePurchaseHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			p, err := tx.GetPurchase(c.UserContext(), ownerID, id)
			if err != nil {
				return err
			}
			if err := tx.DeletePurchase(c.UserContext(), ownerID, id); err != nil {
				return err
			}
			return audit.WriteLog(c.UserContext(), tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "purchase",
				EntityID:    id,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("purchase deleted, total %.2f", p.Total),
				Before:      p,
			})
		})
		if err != nil {
			return err
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
