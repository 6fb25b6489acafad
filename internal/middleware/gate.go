package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LoginGate redirects unauthenticated requests away from every path that is
// not on the exemption list. The public root is always allowed; exemptions
// match on path prefix (login, registration, health, static-style paths).
func LoginGate(secret, loginURL string, exemptPaths []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := claimsFromRequest(c, secret); err == nil {
			return c.Next()
		}

		path := c.Path()
		if path == "/" || strings.HasPrefix(path, loginURL) {
			return c.Next()
		}
		for _, prefix := range exemptPaths {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		return c.Redirect(loginURL, fiber.StatusFound)
	}
}
