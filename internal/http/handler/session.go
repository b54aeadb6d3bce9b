package handler

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"nucleav/internal/config"
	"nucleav/internal/http/middleware"
	"nucleav/internal/model"
	"nucleav/internal/session"
	"nucleav/internal/upstream"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is what the browser shell polls to leave its pending state.
type sessionResponse struct {
	Status    session.Status `json:"status"`
	User      *model.User    `json:"user,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

func setSessionCookie(c *fiber.Ctx, cfg *config.AppConfig, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    token,
		Expires:  expires,
		Path:     "/",
		HTTPOnly: true,
		Secure:   !cfg.IsDevelopment(),
		SameSite: "Lax",
	})
}

func clearSessionCookie(c *fiber.Ctx, cfg *config.AppConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HTTPOnly: true,
	})
}

// CreateSession handles the credential exchange: POST /v1/session.
func CreateSession(mgr *session.Manager, cfg *config.AppConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}
		if req.Email == "" || req.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "email and password are required")
		}

		sess, cookieToken, err := mgr.Exchange(c.UserContext(), req.Email, req.Password)
		if err != nil {
			if upstream.IsUnauthorized(err) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			}
			log.Printf("session exchange failed: %v", err)
			return writeUpstreamError(c, err)
		}

		setSessionCookie(c, cfg, cookieToken, sess.ExpiresAt)
		return c.Status(fiber.StatusCreated).JSON(sessionResponse{
			Status:    session.StatusAuthenticated,
			User:      sess.User,
			ExpiresAt: &sess.ExpiresAt,
		})
	}
}

// GetSession reports the resolution state: GET /v1/session.
// Unauthenticated is a normal answer here, never a 401.
func GetSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		res := sessionResponse{Status: middleware.StatusFromCtx(c)}
		if sess != nil {
			res.User = sess.User
			res.ExpiresAt = &sess.ExpiresAt
		}
		return c.JSON(res)
	}
}

// sessionDropper lets the logout handler discard per-session view state
// without importing the concrete services.
type sessionDropper interface {
	Drop(sessionID string)
}

// DeleteSession logs out: DELETE /v1/session.
func DeleteSession(mgr *session.Manager, cfg *config.AppConfig, droppers ...sessionDropper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess := middleware.SessionFromCtx(c); sess != nil {
			for _, d := range droppers {
				d.Drop(sess.ID)
			}
		}
		if err := mgr.Logout(c.UserContext(), middleware.CookieTokenFromCtx(c)); err != nil {
			log.Printf("logout failed: %v", err)
		}
		clearSessionCookie(c, cfg)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
