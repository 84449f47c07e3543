package sales

import (
	"errors"
	"fmt"
	"time"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/costing"
	"costbook-backend/internal/dashboard"
	"costbook-backend/internal/models"
	"costbook-backend/internal/query"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SaleItemRequest struct {
	RecipeID string  `json:"recipe_id"`
	Quantity float64 `json:"quantity"`
}

type CreateSaleRequest struct {
	Items         []SaleItemRequest    `json:"items"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	AmountGiven   *float64             `json:"amount_given"` // cash tendered, for change
}

type SaleResponse struct {
	models.Sale
	Change *float64 `json:"change,omitempty"`
}

// BuildSale prices every line at the recipe's selling price and snapshots
// its current cost per unit. Total and profit are summed in decimal and
// rounded to cents.
func BuildSale(ownerID uint, items []SaleItemRequest, method models.PaymentMethod, recipes map[string]models.Recipe, ingredients []models.Ingredient, now time.Time) (models.Sale, error) {
	sale := models.Sale{OwnerID: ownerID, Date: now, PaymentMethod: method}

	total, cost := decimal.Zero, decimal.Zero
	for i, it := range items {
		if it.Quantity <= 0 {
			return sale, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: quantity must be greater than zero", i))
		}
		rec, ok := recipes[it.RecipeID]
		if !ok {
			return sale, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("items[%d]: unknown recipe %q", i, it.RecipeID))
		}

		unitCost := costing.DeriveRecipeCost(rec, ingredients).CostPerUnit
		sale.Items = append(sale.Items, models.SaleItem{
			RecipeID:   rec.ID,
			RecipeName: rec.Name,
			Quantity:   it.Quantity,
			UnitPrice:  rec.SellingPrice,
			CostPrice:  unitCost,
		})

		qty := decimal.NewFromFloat(it.Quantity)
		total = total.Add(qty.Mul(decimal.NewFromFloat(rec.SellingPrice)))
		cost = cost.Add(qty.Mul(decimal.NewFromFloat(unitCost)))
	}

	sale.Total = total.Round(2).InexactFloat64()
	sale.Profit = total.Sub(cost).Round(2).InexactFloat64()
	return sale, nil
}

// GET /api/sales?from&to
func ListSalesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		rng, err := query.DateRange(c)
		if err != nil {
			return err
		}

		list, err := st.ListSales(c.UserContext(), ownerID, rng)
		if err != nil {
			return err
		}
		if list == nil {
			list = []models.Sale{}
		}
		return c.JSON(list)
	}
}

// POST /api/sales
//
// Sales never touch stock; production runs do. The sale is attached to the
// open cash session when there is one.
func CreateSaleHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "at least one item is required")
		}
		if !body.PaymentMethod.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method must be cash, pix, debit or credit")
		}

		var resp SaleResponse
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			ctx := c.UserContext()

			recs, err := tx.ListRecipes(ctx, ownerID)
			if err != nil {
				return err
			}
			byID := make(map[string]models.Recipe, len(recs))
			for _, r := range recs {
				byID[r.ID] = r
			}
			ings, err := tx.ListIngredients(ctx, ownerID)
			if err != nil {
				return err
			}

			sale, err := BuildSale(ownerID, body.Items, body.PaymentMethod, byID, ings, time.Now())
			if err != nil {
				return err
			}

			change, err := ChangeDue(body.PaymentMethod, body.AmountGiven, sale.Total)
			if err != nil {
				return err
			}
			resp.Change = change

			session, err := tx.OpenCashSession(ctx, ownerID)
			switch {
			case err == nil:
				sale.CashSessionID = &session.ID
			case !errors.Is(err, store.ErrNotFound):
				return err
			}

			if err := tx.CreateSale(ctx, &sale); err != nil {
				return err
			}
			resp.Sale = sale

			return audit.WriteLog(ctx, tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("sale of %.2f via %s", sale.Total, sale.PaymentMethod),
				After:       sale,
			})
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

// ChangeDue returns the change for cash tendered, or nil for other methods
// and when no amount was given. Cash short of the total is rejected with 422.
func ChangeDue(method models.PaymentMethod, amountGiven *float64, total float64) (*float64, error) {
	if amountGiven == nil || method != models.PaymentCash {
		return nil, nil
	}
	diff := decimal.NewFromFloat(*amountGiven).Sub(decimal.NewFromFloat(total)).Round(2)
	if diff.IsNegative() {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("amount given %.2f is less than the total %.2f", *amountGiven, total))
	}
	change := diff.InexactFloat64()
	return &change, nil
}

// GET /api/sales/export?from&to
func ExportSalesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		rng, err := query.DateRange(c)
		if err != nil {
			return err
		}

		list, err := st.ListSales(c.UserContext(), ownerID, rng)
		if err != nil {
			return err
		}

		buf, err := dashboard.ExportSalesXLSX(list)
		if err != nil {
			return fmt.Errorf("export sales: %w", err)
		}

		filename := "sales_report.xlsx"
		if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
			filename = fmt.Sprintf("sales_report_%s_%s.xlsx", from, to)
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(buf.Bytes())
	}
}
