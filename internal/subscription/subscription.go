// Package subscription decides whether an account may use the business API.
package subscription

import (
	"time"

	"costbook-backend/internal/auth"
	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const ExtendDays = 30

type State string

const (
	StateActive  State = "active"
	StateExpired State = "expired"
	StateBlocked State = "blocked"
)

// Evaluate: admins are always active; an account without an expiry date
// never expires.
func Evaluate(u *models.User, now time.Time) State {
	if u.IsAdmin {
		return StateActive
	}
	if u.SubscriptionStatus == models.SubscriptionBlocked {
		return StateBlocked
	}
	if u.SubscriptionExpiresAt != nil && !now.Before(*u.SubscriptionExpiresAt) {
		return StateExpired
	}
	return StateActive
}

// Extend adds days starting from the later of now and the current expiry,
// and reactivates the account.
func Extend(u *models.User, now time.Time, days int) {
	base := now
	if u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.After(now) {
		base = *u.SubscriptionExpiresAt
	}
	expires := base.AddDate(0, 0, days)
	u.SubscriptionExpiresAt = &expires
	u.SubscriptionStatus = models.SubscriptionActive
}

// Gate must run after auth.JWTMiddleware. The user is reloaded on every
// request so an admin block takes effect before the token expires.
func Gate(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		user, err := st.GetUser(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "account not found")
		}

		switch Evaluate(user, time.Now()) {
		case StateBlocked:
			return fiber.NewError(fiber.StatusPaymentRequired, "account blocked")
		case StateExpired:
			return fiber.NewError(fiber.StatusPaymentRequired, "subscription expired")
		}
		return c.Next()
	}
}
