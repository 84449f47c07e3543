package audit

import (
	"costbook-backend/internal/auth"
	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// GET /api/audit-logs?limit=50&entity_type=recipe
func ListAuditLogsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", defaultLimit)
		if limit <= 0 || limit > maxLimit {
			limit = defaultLimit
		}

		logs, err := st.ListAuditLogs(c.UserContext(), ownerID, store.AuditFilter{
			EntityType: c.Query("entity_type"),
			Limit:      limit,
		})
		if err != nil {
			return err
		}
		if logs == nil {
			logs = []models.AuditLog{}
		}

		return c.JSON(logs)
	}
}
