package cashier

import (
	"testing"
	"time"

	"costbook-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClose(t *testing.T) {
	opened := time.Date(2025, time.March, 7, 8, 0, 0, 0, time.UTC)
	closedAt := opened.Add(10 * time.Hour)
	session := models.CashSession{OpenedAt: opened, InitialBalance: 100, Status: models.CashSessionOpen}

	sales := []models.Sale{
		{Date: opened.Add(-time.Minute), Total: 999}, // before the drawer opened
		{Date: opened, Total: 10.10},
		{Date: opened.Add(time.Hour), Total: 20.20},
	}

	Close(&session, sales, 125, "  short on coins ", closedAt)

	assert.Equal(t, models.CashSessionClosed, session.Status)
	assert.Equal(t, 30.30, session.SalesTotal)
	assert.Equal(t, 130.30, session.ExpectedBalance)
	assert.Equal(t, -5.30, session.Difference)
	require.NotNil(t, session.FinalBalance)
	assert.Equal(t, 125.0, *session.FinalBalance)
	assert.Equal(t, closedAt, *session.ClosedAt)
	assert.Equal(t, "short on coins", session.Notes)
}
