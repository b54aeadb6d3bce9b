package middleware

import (
	"github.com/gofiber/fiber/v2"

	"nucleav/internal/model"
	"nucleav/internal/session"
)

const (
	// SessionLocalKey stores the resolved *model.Session (nil when
	// unauthenticated) in Fiber's context locals.
	SessionLocalKey = "session"
	// SessionStatusLocalKey stores the session.Status for the request.
	SessionStatusLocalKey = "session_status"
	// CookieTokenLocalKey stores the raw cookie token, for logout.
	CookieTokenLocalKey = "session_cookie_token"
)

// ResolveSession resolves the session cookie once per request and stores
// the outcome in context locals. It never rejects: unauthenticated requests
// pass through and downstream guards decide.
func ResolveSession(resolver session.Resolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookieToken := c.Cookies(cookieName)
		res := resolver.Resolve(c.UserContext(), cookieToken)

		c.Locals(SessionStatusLocalKey, res.Status)
		c.Locals(CookieTokenLocalKey, cookieToken)
		if res.Session != nil {
			c.Locals(SessionLocalKey, res.Session)
		}

		return c.Next()
	}
}

// SessionFromCtx returns the resolved session, or nil when unauthenticated.
func SessionFromCtx(c *fiber.Ctx) *model.Session {
	if v := c.Locals(SessionLocalKey); v != nil {
		if s, ok := v.(*model.Session); ok {
			return s
		}
	}
	return nil
}

// StatusFromCtx returns the resolved session status for the request.
func StatusFromCtx(c *fiber.Ctx) session.Status {
	if v := c.Locals(SessionStatusLocalKey); v != nil {
		if s, ok := v.(session.Status); ok {
			return s
		}
	}
	return session.StatusUnauthenticated
}

// CookieTokenFromCtx returns the raw session cookie token, "" when absent.
func CookieTokenFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(CookieTokenLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireSession guards JSON routes: unauthenticated requests get 401.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if StatusFromCtx(c) != session.StatusAuthenticated {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireSessionRedirect guards page routes: unauthenticated requests are
// redirected to the login page instead of getting a JSON error.
func RequireSessionRedirect(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if StatusFromCtx(c) != session.StatusAuthenticated {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		return c.Next()
	}
}
