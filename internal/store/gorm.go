package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"costbook-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var _ Store = (*Gorm)(nil)

type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) WithTx(ctx context.Context, fn func(tx Repo) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// needs gorm.Config.TranslateError
		return ErrConflict
	}
	return err
}

// validID reports whether id can be compared against a uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func inRange(q *gorm.DB, column string, rng DateRange) *gorm.DB {
	if !rng.From.IsZero() {
		q = q.Where(column+" >= ?", rng.From)
	}
	if !rng.To.IsZero() {
		q = q.Where(column+" < ?", rng.To)
	}
	return q
}

// ---------------------------------------------
// Users
// ---------------------------------------------

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return translate(g.db.WithContext(ctx).Create(u).Error)
}

func (g *Gorm) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (g *Gorm) ListUsers(ctx context.Context, search string) ([]models.User, error) {
	q := g.db.WithContext(ctx).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("email ILIKE ? OR full_name ILIKE ?", like, like)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (g *Gorm) UpdateUser(ctx context.Context, u *models.User) error {
	res := g.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"full_name":               u.FullName,
		"phone":                   u.Phone,
		"is_admin":                u.IsAdmin,
		"subscription_status":     u.SubscriptionStatus,
		"subscription_expires_at": u.SubscriptionExpiresAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------
// Ingredients
// ---------------------------------------------

func (g *Gorm) ListIngredients(ctx context.Context, ownerID uint) ([]models.Ingredient, error) {
	var ings []models.Ingredient
	if err := g.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&ings).Error; err != nil {
		return nil, err
	}
	return ings, nil
}

func (g *Gorm) GetIngredient(ctx context.Context, ownerID uint, id string) (*models.Ingredient, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var ing models.Ingredient
	if err := g.db.WithContext(ctx).First(&ing, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &ing, nil
}

func (g *Gorm) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing.Version == 0 {
		ing.Version = 1
	}
	return g.db.WithContext(ctx).Create(ing).Error
}

func (g *Gorm) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	return g.updateIngredientColumns(ctx, ing, map[string]any{
		"name":               ing.Name,
		"unit":               ing.Unit,
		"price_per_unit":     ing.PricePerUnit,
		"last_package_price": ing.LastPackagePrice,
		"last_package_size":  ing.LastPackageSize,
		"current_stock":      ing.CurrentStock,
		"min_stock_alert":    ing.MinStockAlert,
	})
}

func (g *Gorm) SaveIngredientStock(ctx context.Context, ownerID uint, ings []models.Ingredient) error {
	for i := range ings {
		ing := &ings[i]
		if ing.OwnerID != ownerID {
			return fmt.Errorf("ingredient %s: %w", ing.ID, ErrNotFound)
		}
		if err := g.updateIngredientColumns(ctx, ing, map[string]any{
			"price_per_unit":     ing.PricePerUnit,
			"last_package_price": ing.LastPackagePrice,
			"last_package_size":  ing.LastPackageSize,
			"current_stock":      ing.CurrentStock,
		}); err != nil {
			return fmt.Errorf("ingredient %s: %w", ing.ID, err)
		}
	}
	return nil
}

func (g *Gorm) updateIngredientColumns(ctx context.Context, ing *models.Ingredient, cols map[string]any) error {
	if !validID(ing.ID) {
		return ErrNotFound
	}
	now := time.Now()
	cols["version"] = gorm.Expr("version + 1")
	cols["updated_at"] = now

	res := g.db.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("id = ? AND owner_id = ? AND version = ?", ing.ID, ing.OwnerID, ing.Version).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := g.db.WithContext(ctx).Model(&models.Ingredient{}).
			Where("id = ? AND owner_id = ?", ing.ID, ing.OwnerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrStaleSnapshot
	}
	ing.Version++
	ing.UpdatedAt = now
	return nil
}

func (g *Gorm) DeleteIngredient(ctx context.Context, ownerID uint, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res := g.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Ingredient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------
// Recipes
// ---------------------------------------------

func (g *Gorm) ListRecipes(ctx context.Context, ownerID uint) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := g.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (g *Gorm) GetRecipe(ctx context.Context, ownerID uint, id string) (*models.Recipe, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var r models.Recipe
	if err := g.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&r, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *Gorm) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	for i := range r.Items {
		r.Items[i].Position = i
	}
	return g.db.WithContext(ctx).Create(r).Error
}

// UpdateRecipe replaces the scalar fields and the whole item list.
func (g *Gorm) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	if !validID(r.ID) {
		return ErrNotFound
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).
			Where("id = ? AND owner_id = ?", r.ID, r.OwnerID).
			Updates(map[string]any{
				"name":                     r.Name,
				"yield_amount":             r.YieldAmount,
				"yield_unit":               r.YieldUnit,
				"selling_price":            r.SellingPrice,
				"indirect_costs":           r.IndirectCosts,
				"preparation_time_minutes": r.PreparationTimeMinutes,
				"updated_at":               time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("recipe_id = ?", r.ID).Delete(&models.RecipeItem{}).Error; err != nil {
			return err
		}
		for i := range r.Items {
			r.Items[i].ID = 0
			r.Items[i].RecipeID = r.ID
			r.Items[i].Position = i
		}
		if len(r.Items) > 0 {
			if err := tx.Create(&r.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Gorm) DeleteRecipe(ctx context.Context, ownerID uint, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Recipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("recipe_id = ?", id).Delete(&models.RecipeItem{}).Error
	})
}

// ---------------------------------------------
// Purchases
// ---------------------------------------------

func (g *Gorm) ListPurchases(ctx context.Context, ownerID uint, rng DateRange) ([]models.Purchase, error) {
	q := g.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("owner_id = ?", ownerID)
	q = inRange(q, "date", rng)

	var purchases []models.Purchase
	if err := q.Order("date DESC, created_at DESC").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func (g *Gorm) GetPurchase(ctx context.Context, ownerID uint, id string) (*models.Purchase, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var p models.Purchase
	if err := g.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&p, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	for i := range p.Items {
		p.Items[i].Position = i
	}
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *Gorm) DeletePurchase(ctx context.Context, ownerID uint, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Purchase{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("purchase_id = ?", id).Delete(&models.PurchaseItem{}).Error
	})
}

// ---------------------------------------------
// Sales
// ---------------------------------------------

func (g *Gorm) ListSales(ctx context.Context, ownerID uint, rng DateRange) ([]models.Sale, error) {
	q := g.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("owner_id = ?", ownerID)
	q = inRange(q, "date", rng)

	var sales []models.Sale
	if err := q.Order("date DESC").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (g *Gorm) CreateSale(ctx context.Context, s *models.Sale) error {
	for i := range s.Items {
		s.Items[i].Position = i
	}
	return g.db.WithContext(ctx).Create(s).Error
}

// ---------------------------------------------
// Cash sessions
// ---------------------------------------------

func (g *Gorm) ListCashSessions(ctx context.Context, ownerID uint) ([]models.CashSession, error) {
	var sessions []models.CashSession
	if err := g.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("opened_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (g *Gorm) OpenCashSession(ctx context.Context, ownerID uint) (*models.CashSession, error) {
	var s models.CashSession
	if err := g.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, models.CashSessionOpen).
		Order("opened_at DESC").
		First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// CreateCashSession relies on idx_cash_sessions_one_open for racing opens.
func (g *Gorm) CreateCashSession(ctx context.Context, s *models.CashSession) error {
	return translate(g.db.WithContext(ctx).Create(s).Error)
}

func (g *Gorm) UpdateCashSession(ctx context.Context, s *models.CashSession) error {
	res := g.db.WithContext(ctx).Model(&models.CashSession{}).
		Where("id = ? AND owner_id = ?", s.ID, s.OwnerID).
		Updates(map[string]any{
			"closed_at":        s.ClosedAt,
			"final_balance":    s.FinalBalance,
			"sales_total":      s.SalesTotal,
			"expected_balance": s.ExpectedBalance,
			"difference":       s.Difference,
			"status":           s.Status,
			"notes":            s.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------------------------
// Waste
// ---------------------------------------------

func (g *Gorm) ListWasteEntries(ctx context.Context, ownerID uint, rng DateRange) ([]models.WasteEntry, error) {
	var entries []models.WasteEntry
	q := g.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if err := inRange(q, "date", rng).Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (g *Gorm) CreateWasteEntry(ctx context.Context, w *models.WasteEntry) error {
	return g.db.WithContext(ctx).Create(w).Error
}

// ---------------------------------------------
// Audit
// ---------------------------------------------

func (g *Gorm) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return g.db.WithContext(ctx).Create(l).Error
}

func (g *Gorm) ListAuditLogs(ctx context.Context, ownerID uint, f AuditFilter) ([]models.AuditLog, error) {
	q := g.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC")
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
