package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error", fiber.NewError(fiber.StatusUnprocessableEntity, "short"), fiber.StatusUnprocessableEntity},
		{"not found", store.ErrNotFound, fiber.StatusNotFound},
		{"wrapped not found", fmt.Errorf("ingredient x: %w", store.ErrNotFound), fiber.StatusNotFound},
		{"stale", store.ErrStaleSnapshot, fiber.StatusConflict},
		{"conflict", store.ErrConflict, fiber.StatusConflict},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.err))
		})
	}
}

func TestRequestLogger_StoreErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler(zap.NewNop())})
	app.Use(requestLogger(log))
	app.Get("/missing", func(c *fiber.Ctx) error { return store.ErrNotFound })
	app.Get("/stale", func(c *fiber.Ctx) error { return fmt.Errorf("save: %w", store.ErrStaleSnapshot) })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	for path, want := range map[string]int{"/missing": 404, "/stale": 409, "/boom": 500} {
		logs.TakeAll()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)

		entries := logs.FilterMessage("request").AllUntimed()
		require.Len(t, entries, 1, path)
		assert.Equal(t, int64(want), entries[0].ContextMap()["status"], path)
		if want >= 500 {
			assert.Equal(t, zapcore.WarnLevel, entries[0].Level, path)
		} else {
			assert.Equal(t, zapcore.InfoLevel, entries[0].Level, path)
		}
	}
}
