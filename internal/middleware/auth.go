package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Josef-Holecek/krouzky-hb-main/pkg/utils"
)

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("name", claims.Name)

		return c.Next()
	}
}

// AuthOptional resolves the identity when a valid bearer token is present
// but lets anonymous requests through. Public listing endpoints use it to
// decide whether pending/rejected entities may be shown to their owner.
func AuthOptional(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		if claims, err := utils.ValidateToken(parts[1], secret); err == nil {
			c.Locals("user_id", claims.UserID)
			c.Locals("email", claims.Email)
			c.Locals("name", claims.Name)
		}

		return c.Next()
	}
}
