// Package query parses query-string parameters shared by several handlers.
package query

import (
	"time"

	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const DateLayout = "2006-01-02"

// DateRange reads ?from=YYYY-MM-DD&to=YYYY-MM-DD in local time. Both days are
// included; To is turned into the exclusive start of the following day.
func DateRange(c *fiber.Ctx) (store.DateRange, error) {
	var rng store.DateRange
	if s := c.Query("from"); s != "" {
		from, err := time.ParseInLocation(DateLayout, s, time.Local)
		if err != nil {
			return rng, fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		rng.From = from
	}
	if s := c.Query("to"); s != "" {
		to, err := time.ParseInLocation(DateLayout, s, time.Local)
		if err != nil {
			return rng, fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		rng.To = to.AddDate(0, 0, 1)
	}
	if !rng.From.IsZero() && !rng.To.IsZero() && !rng.From.Before(rng.To) {
		return rng, fiber.NewError(fiber.StatusBadRequest, "from must not be after to")
	}
	return rng, nil
}
