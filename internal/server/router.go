// Package server builds the fiber application and its route table.
package server

import (
	"strings"

	"costbook-backend/internal/admin"
	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/cashier"
	"costbook-backend/internal/config"
	"costbook-backend/internal/dashboard"
	"costbook-backend/internal/inventory"
	"costbook-backend/internal/purchases"
	"costbook-backend/internal/receipt"
	"costbook-backend/internal/recipes"
	"costbook-backend/internal/sales"
	"costbook-backend/internal/store"
	"costbook-backend/internal/subscription"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

type Deps struct {
	Config  *config.Config
	Store   store.Store
	Logger  *zap.Logger
	Scanner receipt.Scanner // nil disables /purchases/scan
}

func New(d Deps) *fiber.App {
	cfg, st, log := d.Config, d.Store, d.Logger
	maxUpload := int64(cfg.MaxUploadMB) * 1024 * 1024

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(log),
		// multipart overhead on top of the image itself
		BodyLimit: int(maxUpload) + 64*1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(log))

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg, st))
	api.Post("/auth/login", auth.LoginHandler(cfg, st))

	// Authenticated, not gated: an expired account can still see why
	protected := api.Group("", auth.JWTMiddleware(cfg))
	protected.Get("/auth/me", auth.MeHandler(st))

	// Admin
	adminRoutes := protected.Group("/admin", auth.RequireAdmin())
	adminRoutes.Get("/profiles", admin.ListProfilesHandler(st))
	adminRoutes.Put("/profiles/:id/subscription", admin.UpdateSubscriptionHandler(st, log))
	adminRoutes.Post("/profiles/:id/subscription/extend", admin.ExtendSubscriptionHandler(st, log))

	// Business routes need an active subscription
	biz := protected.Group("", subscription.Gate(st))

	// Ingredients
	biz.Get("/ingredients", inventory.ListIngredientsHandler(st))
	biz.Get("/ingredients/low-stock", inventory.LowStockHandler(st))
	biz.Post("/ingredients", inventory.CreateIngredientHandler(st, log))
	biz.Post("/ingredients/import", inventory.ImportIngredientsHandler(st, log))
	biz.Get("/ingredients/:id", inventory.GetIngredientHandler(st))
	biz.Put("/ingredients/:id", inventory.UpdateIngredientHandler(st))
	biz.Delete("/ingredients/:id", inventory.DeleteIngredientHandler(st))
	biz.Post("/ingredients/:id/waste", inventory.CreateWasteHandler(st))
	biz.Get("/waste-entries", inventory.ListWasteEntriesHandler(st))

	// Recipes
	biz.Get("/recipes", recipes.ListRecipesHandler(st))
	biz.Post("/recipes", recipes.CreateRecipeHandler(st))
	biz.Get("/recipes/:id", recipes.GetRecipeHandler(st))
	biz.Put("/recipes/:id", recipes.UpdateRecipeHandler(st))
	biz.Delete("/recipes/:id", recipes.DeleteRecipeHandler(st))
	biz.Get("/recipes/:id/cost", recipes.RecipeCostHandler(st))
	biz.Post("/recipes/:id/produce", recipes.ProduceHandler(st, log))

	// Purchases
	biz.Get("/purchases", purchases.ListPurchasesHandler(st))
	biz.Post("/purchases", purchases.CreatePurchaseHandler(st, log))
	biz.Post("/purchases/scan", purchases.ScanReceiptHandler(st, d.Scanner, maxUpload, log))
	biz.Get("/purchases/:id", purchases.GetPurchaseHandler(st))
	biz.Delete("/purchases/:id", purchases.DeletePurchaseHandler(st))

	// Sales
	biz.Get("/sales", sales.ListSalesHandler(st))
	biz.Post("/sales", sales.CreateSaleHandler(st))
	biz.Get("/sales/export", sales.ExportSalesHandler(st))

	// Cashier
	biz.Get("/cash-sessions", cashier.ListSessionsHandler(st))
	biz.Get("/cash-sessions/current", cashier.CurrentSessionHandler(st))
	biz.Post("/cash-sessions/open", cashier.OpenSessionHandler(st))
	biz.Post("/cash-sessions/close", cashier.CloseSessionHandler(st))

	// Dashboard
	biz.Get("/dashboard/stats", dashboard.StatsHandler(st))
	biz.Get("/dashboard/sales-chart", dashboard.SalesChartHandler(st))

	// Audit
	biz.Get("/audit-logs", audit.ListAuditLogsHandler(st))

	return app
}
