package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"nucleav/internal/http/middleware"
	"nucleav/internal/model"
	"nucleav/internal/service/company"
)

// ListCompanies handles GET /v1/companies?q=&tab=.
func ListCompanies(svc *company.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tab := c.Query("tab", company.TabAll)
		if tab != company.TabAll && tab != company.TabMine {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TAB", "tab must be all or mine")
		}

		sess := middleware.SessionFromCtx(c)
		items, err := svc.List(c.UserContext(), sess, company.Filter{
			Query: c.Query("q"),
			Tab:   tab,
		})
		if err != nil {
			return writeUpstreamError(c, err)
		}
		if items == nil {
			items = []model.Company{}
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	}
}

// GetCompany handles GET /v1/companies/:cif.
func GetCompany(svc *company.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		item, err := svc.Get(c.UserContext(), sess, c.Params("cif"))
		if err != nil {
			return writeUpstreamError(c, err)
		}
		return c.JSON(item)
	}
}

// CreateCompany handles POST /v1/companies.
func CreateCompany(svc *company.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in company.Input
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		sess := middleware.SessionFromCtx(c)
		created, fields, err := svc.Create(c.UserContext(), sess, in)
		if err != nil {
			if errors.Is(err, company.ErrInvalidInput) {
				return writeFieldErrors(c, fields)
			}
			return writeUpstreamError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// UpdateCompany handles PUT /v1/companies/:cif. The CIF in the route is
// authoritative; one in the body is ignored.
func UpdateCompany(svc *company.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in company.Input
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		}

		sess := middleware.SessionFromCtx(c)
		updated, fields, err := svc.Update(c.UserContext(), sess, c.Params("cif"), in)
		if err != nil {
			if errors.Is(err, company.ErrInvalidInput) {
				return writeFieldErrors(c, fields)
			}
			return writeUpstreamError(c, err)
		}
		return c.JSON(updated)
	}
}

// DeleteCompany handles DELETE /v1/companies/:cif?confirm=true. The confirm
// flag is the API form of the modal gate: without it nothing is deleted.
func DeleteCompany(svc *company.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFromCtx(c)
		confirmed := c.QueryBool("confirm", false)

		err := svc.Delete(c.UserContext(), sess, c.Params("cif"), confirmed)
		if err != nil {
			if errors.Is(err, company.ErrConfirmationRequired) {
				return writeError(c, fiber.StatusBadRequest, "CONFIRMATION_REQUIRED", "delete requires confirm=true")
			}
			return writeUpstreamError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
