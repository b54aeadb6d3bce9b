package handler

import (
	"github.com/gofiber/fiber/v2"

	"nucleav/internal/http/middleware"
	"nucleav/internal/model"
	"nucleav/internal/upstream"
)

// ListMaterials handles GET /v1/materials. Materials are read-only here:
// the listing is a straight pass-through of the upstream collection.
func ListMaterials(api upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		materials, err := api.Materials(c.UserContext(), sess.Token)
		if err != nil {
			return writeUpstreamError(c, err)
		}
		if materials == nil {
			materials = []model.Material{}
		}
		return c.JSON(fiber.Map{"data": materials, "total": len(materials)})
	}
}
