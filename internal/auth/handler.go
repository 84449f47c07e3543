package auth

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"costbook-backend/internal/config"
	"costbook-backend/internal/models"
	"costbook-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileResponse struct {
	ID                    uint                      `json:"id"`
	Email                 string                    `json:"email"`
	FullName              string                    `json:"full_name"`
	Phone                 string                    `json:"phone"`
	IsAdmin               bool                      `json:"is_admin"`
	SubscriptionStatus    models.SubscriptionStatus `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time                `json:"subscription_expires_at"`
}

func NewProfileResponse(u *models.User) ProfileResponse {
	return ProfileResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		FullName:              u.FullName,
		Phone:                 u.Phone,
		IsAdmin:               u.IsAdmin,
		SubscriptionStatus:    u.SubscriptionStatus,
		SubscriptionExpiresAt: u.SubscriptionExpiresAt,
	}
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// POST /api/auth/register
func RegisterHandler(cfg *config.Config, st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Email = normalizeEmail(body.Email)
		if _, err := mail.ParseAddress(body.Email); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "a valid email is required")
		}
		if len(body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not hash password")
		}

		expires := time.Now().AddDate(0, 0, cfg.TrialDays)
		user := models.User{
			Email:                 body.Email,
			FullName:              strings.TrimSpace(body.FullName),
			Phone:                 strings.TrimSpace(body.Phone),
			PasswordHash:          string(hash),
			IsAdmin:               cfg.OwnerEmail != "" && body.Email == cfg.OwnerEmail,
			SubscriptionStatus:    models.SubscriptionActive,
			SubscriptionExpiresAt: &expires,
		}

		if err := st.CreateUser(c.UserContext(), &user); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return fiber.NewError(fiber.StatusConflict, "email already registered")
			}
			return err
		}

		token, err := GenerateToken(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"token": token,
			"user":  NewProfileResponse(&user),
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		user, err := st.GetUserByEmail(c.UserContext(), normalizeEmail(body.Email))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "wrong email or password")
		}

		// the owner account is promoted even if it registered before OWNER_EMAIL was set
		if cfg.OwnerEmail != "" && user.Email == cfg.OwnerEmail && !user.IsAdmin {
			user.IsAdmin = true
			if err := st.UpdateUser(c.UserContext(), user); err != nil {
				return err
			}
		}

		token, err := GenerateToken(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  NewProfileResponse(user),
		})
	}
}

// GET /api/auth/me
func MeHandler(st store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := CurrentUserID(c)
		if err != nil {
			return err
		}

		user, err := st.GetUser(c.UserContext(), userID)
		if err != nil {
			return err
		}
		return c.JSON(NewProfileResponse(user))
	}
}
