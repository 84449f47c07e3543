// Package store is the persistence boundary. Handlers depend on the Store
// interface; Gorm backs it with Postgres and Memory keeps everything in
// process for development and tests.
package store

import (
	"context"
	"errors"
	"time"

	"costbook-backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleSnapshot: an ingredient changed since it was read.
	ErrStaleSnapshot = errors.New("stale ingredient snapshot")
	ErrConflict      = errors.New("conflicting record")
)

type DateRange struct {
	From time.Time // inclusive, zero = unbounded
	To   time.Time // exclusive, zero = unbounded
}

// AuditFilter narrows ListAuditLogs. Empty EntityType matches every entity;
// Limit <= 0 means no limit.
type AuditFilter struct {
	EntityType string
	Limit      int
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

type Repo interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, search string) ([]models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error

	ListIngredients(ctx context.Context, ownerID uint) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, ownerID uint, id string) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	// UpdateIngredient writes every column of ing if its Version still
	// matches, then bumps ing.Version.
	UpdateIngredient(ctx context.Context, ing *models.Ingredient) error
	DeleteIngredient(ctx context.Context, ownerID uint, id string) error
	// SaveIngredientStock persists stock, price and package fields of each
	// ingredient under the same version check as UpdateIngredient.
	SaveIngredientStock(ctx context.Context, ownerID uint, ings []models.Ingredient) error

	ListRecipes(ctx context.Context, ownerID uint) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, ownerID uint, id string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, r *models.Recipe) error
	UpdateRecipe(ctx context.Context, r *models.Recipe) error
	DeleteRecipe(ctx context.Context, ownerID uint, id string) error

	ListPurchases(ctx context.Context, ownerID uint, rng DateRange) ([]models.Purchase, error)
	GetPurchase(ctx context.Context, ownerID uint, id string) (*models.Purchase, error)
	CreatePurchase(ctx context.Context, p *models.Purchase) error
	DeletePurchase(ctx context.Context, ownerID uint, id string) error

	ListSales(ctx context.Context, ownerID uint, rng DateRange) ([]models.Sale, error)
	CreateSale(ctx context.Context, s *models.Sale) error

	ListCashSessions(ctx context.Context, ownerID uint) ([]models.CashSession, error)
	// OpenCashSession returns ErrNotFound when no session is open.
	OpenCashSession(ctx context.Context, ownerID uint) (*models.CashSession, error)
	CreateCashSession(ctx context.Context, s *models.CashSession) error
	UpdateCashSession(ctx context.Context, s *models.CashSession) error

	ListWasteEntries(ctx context.Context, ownerID uint, rng DateRange) ([]models.WasteEntry, error)
	CreateWasteEntry(ctx context.Context, w *models.WasteEntry) error

	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, ownerID uint, f AuditFilter) ([]models.AuditLog, error)
}

type Store interface {
	Repo
	// WithTx runs fn atomically; any error rolls every write back.
	WithTx(ctx context.Context, fn func(tx Repo) error) error
}
