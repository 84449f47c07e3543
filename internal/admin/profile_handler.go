package admin

import (
	"fmt"
	"strings"
	"time"

	"costbook-backend/internal/audit"
	"costbook-backend/internal/auth"
	"costbook-backend/internal/models"
	"costbook-backend/internal/store"
	"costbook-backend/internal/subscription"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProfileResponse struct {
	auth.ProfileResponse
	State     subscription.State `json:"state"`
	CreatedAt time.Time          `json:"created_at"`
}

type UpdateSubscriptionRequest struct {
	Status    *models.SubscriptionStatus `json:"status"`
	ExpiresAt *time.Time                 `json:"expires_at"`
}

func newProfileResponse(u *models.User, now time.Time) ProfileResponse {
	return ProfileResponse{
		ProfileResponse: auth.NewProfileResponse(u),
		State:           subscription.Evaluate(u, now),
		CreatedAt:       u.CreatedAt,
	}
}

func profileID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid profile id")
	}
	return uint(id), nil
}

// ----------------------------------------
// PROFILES
// ----------------------------------------

// GET /api/admin/profiles?search=maria
func ListProfilesHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := st.ListUsers(c.UserContext(), strings.TrimSpace(c.Query("search")))
		if err != nil {
			return err
		}

		now := time.Now()
		resp := make([]ProfileResponse, 0, len(users))
		for i := range users {
			resp = append(resp, newProfileResponse(&users[i], now))
		}
		return c.JSON(resp)
	}
}

// PUT /api/admin/profiles/:id/subscription
func UpdateSubscriptionHandler(st store.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := profileID(c)
		if err != nil {
			return err
		}

		var body UpdateSubscriptionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Status == nil && body.ExpiresAt == nil {
			return fiber.NewError(fiber.StatusBadRequest, "status or expires_at is required")
		}
		if body.Status != nil && *body.Status != models.SubscriptionActive && *body.Status != models.SubscriptionBlocked {
			return fiber.NewError(fiber.StatusBadRequest, "status must be active or blocked")
		}

		return updateProfile(c, st, log, id, func(u *models.User) string {
			if body.Status != nil {
				u.SubscriptionStatus = *body.Status
			}
			if body.ExpiresAt != nil {
				expires := *body.ExpiresAt
				u.SubscriptionExpiresAt = &expires
			}
			return fmt.Sprintf("subscription of %s set to %s", u.Email, u.SubscriptionStatus)
		})
	}
}

// POST /api/admin/profiles/:id/subscription/extend
func ExtendSubscriptionHandler(st store.Store, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := profileID(c)
		if err != nil {
			return err
		}

		return updateProfile(c, st, log, id, func(u *models.User) string {
			subscription.Extend(u, time.Now(), subscription.ExtendDays)
			return fmt.Sprintf("subscription of %s extended to %s", u.Email, u.SubscriptionExpiresAt.Format("2006-01-02"))
		})
	}
}

func updateProfile(c *fiber.Ctx, st store.Store, log *zap.Logger, id uint, apply func(*models.User) string) error {
	adminID, err := auth.CurrentUserID(c)
	if err != nil {
		return err
	}

	user, err := st.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}

	before := newProfileResponse(user, time.Now())
	description := apply(user)

	if err := st.UpdateUser(c.UserContext(), user); err != nil {
		return err
	}

	after := newProfileResponse(user, time.Now())
	if err := audit.WriteLog(c.UserContext(), st, audit.LogOptions{
		OwnerID:     user.ID,
		UserID:      adminID,
		EntityType:  "subscription",
		EntityID:    fmt.Sprint(user.ID),
		Action:      models.AuditActionUpdate,
		Description: description,
		Before:      before,
		After:       after,
	}); err != nil {
		log.Warn("audit write failed", zap.Error(err), zap.Uint("profile_id", user.ID))
	}

	return c.JSON(after)
}
