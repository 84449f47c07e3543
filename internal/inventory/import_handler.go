package inventory

import (
	"fmt"
	"strings"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/costing"
	"costbook-backend/internal/models"
	"costbook-backend/internal/receipt"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ImportResponse struct {
	Created  []models.Ingredient `json:"created"`
	Existing []string            `json:"existing"` // names already in stock, left untouched
	Errors   []RowError          `json:"errors"`
}

// POST /api/ingredients/import (multipart, field "file", .xlsx)
//
// Creates every new ingredient of the sheet in one transaction. Rows whose
// folded name matches an existing ingredient are skipped, never updated.
func ImportIngredientsHandler(st store.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files can be imported")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not open file")
		}
		defer file.Close()

		rows, rowErrs, err := ReadIngredientSheet(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not read workbook")
		}

		resp := ImportResponse{Created: []models.Ingredient{}, Existing: []string{}, Errors: rowErrs}
		if resp.Errors == nil {
			resp.Errors = []RowError{}
		}

		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			ctx := c.UserContext()

			current, err := tx.ListIngredients(ctx, ownerID)
			if err != nil {
				return err
			}
			known := make(map[string]bool, len(current))
			for _, ing := range current {
				known[receipt.Fold(ing.Name)] = true
			}

			for _, r := range rows {
				key := receipt.Fold(r.Name)
				if known[key] {
					resp.Existing = append(resp.Existing, r.Name)
					continue
				}
				known[key] = true

				ing := models.Ingredient{
					OwnerID:          ownerID,
					Name:             r.Name,
					Unit:             r.Unit,
					PricePerUnit:     costing.InitialUnitPrice(r.PackagePrice, r.PackageSize),
					LastPackagePrice: r.PackagePrice,
					LastPackageSize:  r.PackageSize,
					CurrentStock:     r.CurrentStock,
					MinStockAlert:    r.MinStockAlert,
				}
				if err := tx.CreateIngredient(ctx, &ing); err != nil {
					return err
				}
				resp.Created = append(resp.Created, ing)
			}

			if len(resp.Created) == 0 {
				return nil
			}
			return audit.WriteLog(ctx, tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "ingredient",
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%d ingredient(s) imported from %s", len(resp.Created), fileHeader.Filename),
				After:       resp.Created,
			})
		})
		if err != nil {
			return err
		}

		log.Info("ingredients imported",
			zap.Uint("owner_id", ownerID),
			zap.Int("created", len(resp.Created)),
			zap.Int("existing", len(resp.Existing)),
			zap.Int("errors", len(resp.Errors)),
		)
		return c.JSON(resp)
	}
}
