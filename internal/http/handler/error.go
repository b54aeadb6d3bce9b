package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"nucleav/internal/http/middleware"
	"nucleav/internal/upstream"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeFieldErrors writes a validation failure with per-field inline messages.
func writeFieldErrors(c *fiber.Ctx, fields map[string]string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    "VALIDATION_FAILED",
			Message: "one or more fields are invalid",
			Fields:  fields,
		},
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
}

// writeUpstreamError translates an upstream failure into a safe one-line
// message. Views fall back to their empty state; nothing is retried here.
func writeUpstreamError(c *fiber.Ctx, err error) error {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case fiber.StatusUnauthorized:
			return writeError(c, fiber.StatusUnauthorized, "UPSTREAM_UNAUTHORIZED", "session is no longer valid")
		case fiber.StatusNotFound:
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		case fiber.StatusConflict:
			return writeError(c, fiber.StatusConflict, "CONFLICT", "resource already exists")
		}
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "upstream request failed")
	}
	if errors.Is(err, upstream.ErrMalformedResponse) {
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_MALFORMED", "upstream response could not be decoded")
	}
	// Transport failure (DNS, refused connection, timeout).
	return writeError(c, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "upstream is unavailable")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
