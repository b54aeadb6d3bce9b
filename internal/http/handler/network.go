package handler

import (
	"github.com/gofiber/fiber/v2"

	"nucleav/internal/http/middleware"
	"nucleav/internal/model"
	"nucleav/internal/upstream"
)

// ListNetwork handles GET /v1/network: the user directory backing the
// network page.
func ListNetwork(api upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		users, err := api.Users(c.UserContext(), sess.Token)
		if err != nil {
			return writeUpstreamError(c, err)
		}
		if users == nil {
			users = []model.User{}
		}
		return c.JSON(fiber.Map{"data": users, "total": len(users)})
	}
}
