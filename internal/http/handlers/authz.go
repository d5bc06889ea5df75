package handlers

import (
	"github.com/gofiber/fiber/v2"

	"swapit/internal/domain"
	applog "swapit/internal/log"
	"swapit/internal/services"
)

// currentUser resolves the session cookie, preferring the user the
// context middleware already attached.
func currentUser(c *fiber.Ctx, auth *services.AuthService) *domain.User {
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return u
	}
	sid := c.Cookies("sid")
	if sid == "" {
		return nil
	}
	u, err := auth.CurrentUser(sid)
	if err != nil {
		return nil
	}
	return u
}

// RequireUser guards JSON routes; the client redirects to login on 401.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c, auth)
		if u == nil {
			applog.Security(c, "access.denied", nil)
			return fail(c, fiber.StatusUnauthorized, "Not authenticated")
		}
		c.Locals("user", u)
		return c.Next()
	}
}
