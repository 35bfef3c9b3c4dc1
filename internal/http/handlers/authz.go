package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "salepoint/internal/log"
	"salepoint/internal/services"
)

// RequireUser enforces that someone is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

// RequireManager gates the catalog and supplier areas to the MANAGER role.
// Non-managers are bounced to the dashboard, matching the original flow.
func RequireManager(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		if !u.IsManager() {
			applog.Security(c, "access.denied.manager", map[string]any{"user": u.Username})
			return c.Redirect("/dashboard")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}
