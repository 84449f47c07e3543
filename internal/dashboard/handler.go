package dashboard

import (
	"time"

	"costbook-backend/internal/auth"
	"costbook-backend/internal/query"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/stats?from=2025-01-01&to=2025-01-31
func StatsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}
		rng, err := query.DateRange(c)
		if err != nil {
			return err
		}

		ctx := c.UserContext()
		sales, err := st.ListSales(ctx, ownerID, rng)
		if err != nil {
			return err
		}
		purchases, err := st.ListPurchases(ctx, ownerID, rng)
		if err != nil {
			return err
		}
		recipes, err := st.ListRecipes(ctx, ownerID)
		if err != nil {
			return err
		}
		ingredients, err := st.ListIngredients(ctx, ownerID)
		if err != nil {
			return err
		}

		stats := ComputeStats(sales, purchases, recipes, ingredients, rng)
		stats.From = c.Query("from")
		stats.To = c.Query("to")
		return c.JSON(stats)
	}
}

// GET /api/dashboard/sales-chart?period=daily&count=7
func SalesChartHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		period := c.Query("period", PeriodDaily)
		switch period {
		case PeriodDaily, PeriodWeekly, PeriodMonthly:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "period must be daily, weekly or monthly")
		}

		count := c.QueryInt("count", DefaultCount(period))
		if count <= 0 || count > 366 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid count")
		}

		now := time.Now()
		from, to := ChartWindow(period, count, now)
		sales, err := st.ListSales(c.UserContext(), ownerID, store.DateRange{From: from, To: to})
		if err != nil {
			return err
		}

		return c.JSON(SalesChart(sales, period, count, now))
	}
}
