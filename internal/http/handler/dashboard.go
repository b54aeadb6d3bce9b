package handler

import (
	"github.com/gofiber/fiber/v2"

	"nucleav/internal/http/middleware"
	"nucleav/internal/service/dashboard"
)

// GetDashboard handles GET /v1/dashboard: fetches the source collections
// and returns the freshly aggregated statistics.
func GetDashboard(svc *dashboard.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		stats, err := svc.Stats(c.UserContext(), sess)
		if err != nil {
			return writeUpstreamError(c, err)
		}
		return c.JSON(stats)
	}
}
