package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"nucleav/internal/http/middleware"
	"nucleav/internal/session"
	"nucleav/internal/upstream"
)

// GetProfile handles GET /v1/profile. The session claims are served when
// present; a token-only session falls back to a live identity lookup.
func GetProfile(api upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		if sess.User != nil {
			return c.JSON(sess.User)
		}
		user, err := api.Me(c.UserContext(), sess.Token)
		if err != nil {
			return writeUpstreamError(c, err)
		}
		return c.JSON(user)
	}
}

// UpdateProfile handles PUT /v1/profile. The upstream result becomes the new
// stored claims; a failed claim refresh is tolerated, the next login fixes it.
func UpdateProfile(api upstream.Client, mgr *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in upstream.ProfileInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		sess := middleware.SessionFromCtx(c)
		user, err := api.UpdateMe(c.UserContext(), sess.Token, in)
		if err != nil {
			return writeUpstreamError(c, err)
		}

		if err := mgr.RefreshClaims(c.UserContext(), sess, user); err != nil {
			log.Printf("profile: claim refresh failed: %v", err)
		}
		return c.JSON(user)
	}
}
