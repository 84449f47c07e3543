package server

import (
	"errors"

	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusOf resolves the HTTP status an error is answered with.
func statusOf(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, store.ErrStaleSnapshot), errors.Is(err, store.ErrConflict):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// errorHandler renders every error as {"error": msg}. Store sentinels get
// their HTTP status here so handlers can return them unwrapped.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		status := statusOf(err)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.Status(status).JSON(fiber.Map{"error": "not found"})
		case errors.Is(err, store.ErrStaleSnapshot):
			return c.Status(status).JSON(fiber.Map{"error": "data changed since it was read, reload and retry"})
		case errors.Is(err, store.ErrConflict):
			return c.Status(status).JSON(fiber.Map{"error": "conflicting record"})
		}

		log.Error("unexpected error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		return c.Status(status).JSON(fiber.Map{"error": "unexpected server error"})
	}
}
