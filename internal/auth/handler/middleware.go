package handler

import (
	"strings"

	"github.com/Fakhir-Israr-200219/auth-service/internal/auth/service"
	"github.com/gofiber/fiber/v2"
)

const currentUserIDKey = "currentUserID"

// RequireAuth verifies the bearer token and stores the caller's user ID in
// the request locals for handlers to pass on explicitly.
func RequireAuth(tokens service.TokenGenerator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing authorization header"})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid authorization header"})
		}

		claims, err := tokens.VerifyAccessToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired access token"})
		}

		c.Locals(currentUserIDKey, claims.Subject)

		return c.Next()
	}
}

// CurrentUserID returns the caller's user ID set by RequireAuth, or "" when
// the request was not authenticated.
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(currentUserIDKey).(string)
	return id
}
