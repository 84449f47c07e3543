package cashier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type OpenSessionRequest struct {
	InitialBalance float64 `json:"initial_balance"`
}

type CloseSessionRequest struct {
	FinalBalance *float64 `json:"final_balance"`
	Notes        string   `json:"notes"`
}

// Close settles s against the sales made since it opened.
// expected = initial + sales, difference = counted - expected.
func Close(s *models.CashSession, sales []models.Sale, finalBalance float64, notes string, now time.Time) {
	salesTotal := decimal.Zero
	for _, sale := range sales {
		if !sale.Date.Before(s.OpenedAt) {
			salesTotal = salesTotal.Add(decimal.NewFromFloat(sale.Total))
		}
	}

	expected := decimal.NewFromFloat(s.InitialBalance).Add(salesTotal)
	counted := decimal.NewFromFloat(finalBalance)

	s.SalesTotal = salesTotal.Round(2).InexactFloat64()
	s.ExpectedBalance = expected.Round(2).InexactFloat64()
	s.Difference = counted.Sub(expected).Round(2).InexactFloat64()
	s.FinalBalance = &finalBalance
	s.ClosedAt = &now
	s.Status = models.CashSessionClosed
	s.Notes = strings.TrimSpace(notes)
}

// GET /api/cash-sessions
func ListSessionsHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		sessions, err := st.ListCashSessions(c.UserContext(), ownerID)
		if err != nil {
			return err
		}
		if sessions == nil {
			sessions = []models.CashSession{}
		}
		return c.JSON(sessions)
	}
}

// GET /api/cash-sessions/current
//
// Returns null when the drawer is closed. SalesTotal and ExpectedBalance are
// filled in live so the operator sees the running figure.
func CurrentSessionHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		session, err := st.OpenCashSession(c.UserContext(), ownerID)
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(nil)
		}
		if err != nil {
			return err
		}

		sales, err := st.ListSales(c.UserContext(), ownerID, store.DateRange{From: session.OpenedAt})
		if err != nil {
			return err
		}

		running := decimal.Zero
		for _, s := range sales {
			running = running.Add(decimal.NewFromFloat(s.Total))
		}
		session.SalesTotal = running.Round(2).InexactFloat64()
		session.ExpectedBalance = decimal.NewFromFloat(session.InitialBalance).Add(running).Round(2).InexactFloat64()

		return c.JSON(session)
	}
}

// POST /api/cash-sessions/open
func OpenSessionHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body OpenSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.InitialBalance < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "initial_balance cannot be negative")
		}

		session := models.CashSession{
			OwnerID:        ownerID,
			OpenedAt:       time.Now(),
			InitialBalance: body.InitialBalance,
			Status:         models.CashSessionOpen,
		}

		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			ctx := c.UserContext()
			if _, err := tx.OpenCashSession(ctx, ownerID); err == nil {
				return fiber.NewError(fiber.StatusConflict, "a cash session is already open")
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			if err := tx.CreateCashSession(ctx, &session); err != nil {
				return err
			}
			return audit.WriteLog(ctx, tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "cash_session",
				EntityID:    session.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("cash session opened with %.2f", session.InitialBalance),
				After:       session,
			})
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

// POST /api/cash-sessions/close
func CloseSessionHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CloseSessionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.FinalBalance == nil {
			return fiber.NewError(fiber.StatusBadRequest, "final_balance is required")
		}
		if *body.FinalBalance < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "final_balance cannot be negative")
		}

		var session *models.CashSession
		err = st.WithTx(c.UserContext(), func(tx store.Repo) error {
			ctx := c.UserContext()

			open, err := tx.OpenCashSession(ctx, ownerID)
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusConflict, "no cash session is open")
			}
			if err != nil {
				return err
			}
			before := *open
			session = open

			sales, err := tx.ListSales(ctx, ownerID, store.DateRange{From: session.OpenedAt})
			if err != nil {
				return err
			}

			Close(session, sales, *body.FinalBalance, body.Notes, time.Now())
			if err := tx.UpdateCashSession(ctx, session); err != nil {
				return err
			}

			return audit.WriteLog(ctx, tx, audit.LogOptions{
				OwnerID:     ownerID,
				EntityType:  "cash_session",
				EntityID:    session.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("cash session closed, difference %.2f", session.Difference),
				Before:      before,
				After:       session,
			})
		})
		if err != nil {
			return err
		}

		return c.JSON(session)
	}
}
