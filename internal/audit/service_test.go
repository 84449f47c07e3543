package audit

import (
	"context"
	"testing"

	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLog(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	err := WriteLog(ctx, st, LogOptions{
		OwnerID:     7,
		EntityType:  "ingredient",
		EntityID:    "abc",
		Action:      models.AuditActionCreate,
		Description: "created flour",
		After:       map[string]float64{"current_stock": 5},
	})
	require.NoError(t, err)

	logs, err := st.ListAuditLogs(ctx, 7, store.AuditFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)

	l := logs[0]
	assert.Equal(t, uint(7), l.UserID, "user defaults to owner")
	assert.Equal(t, "null", l.BeforeData)
	assert.JSONEq(t, `{"current_stock":5}`, l.AfterData)
}

func TestWriteLog_RolledBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	err := st.WithTx(ctx, func(tx store.Repo) error {
		if err := WriteLog(ctx, tx, LogOptions{OwnerID: 1, EntityType: "recipe", Action: models.AuditActionProduce}); err != nil {
			return err
		}
		return store.ErrStaleSnapshot
	})
	require.ErrorIs(t, err, store.ErrStaleSnapshot)

	logs, err := st.ListAuditLogs(ctx, 1, store.AuditFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
