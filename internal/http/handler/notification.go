package handler

import (
	"github.com/gofiber/fiber/v2"

	"nucleav/internal/http/middleware"
	"nucleav/internal/notify"
)

// GetNotification handles GET /v1/notifications: the session's single
// visible toast, {open:false} when none.
func GetNotification(hub *notify.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		return c.JSON(hub.Current(sess.ID))
	}
}

// DismissNotification handles DELETE /v1/notifications: the explicit close
// control.
func DismissNotification(hub *notify.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		hub.Dismiss(sess.ID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
