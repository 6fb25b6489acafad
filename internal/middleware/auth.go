package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/F0gboy/DiscGolfCoachingSite/pkg/utils"
)

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromRequest(c, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or missing token",
			})
		}

		storeClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a token is present but
// lets anonymous requests through. Used by the public submission route.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, err := claimsFromRequest(c, secret); err == nil {
			storeClaims(c, claims)
		}
		return c.Next()
	}
}

func claimsFromRequest(c *fiber.Ctx, secret string) (*utils.Claims, error) {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fiber.ErrUnauthorized
	}

	return utils.ValidateToken(parts[1], secret)
}

func storeClaims(c *fiber.Ctx, claims *utils.Claims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	c.Locals("admin", claims.Admin)
}
