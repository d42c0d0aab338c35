package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/go-todo/auth"
)

// SessionAuth authenticates bearer requests. The signature check fails
// fast on garbage; the session lookup is what makes logout and forced
// revocation actually stick.
func SessionAuth(sessions *auth.SessionRegistry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing token"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token format"})
		}

		claims, err := sessions.Validate(c.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSessionExpired):
				return c.Status(403).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, auth.ErrNoSession), errors.Is(err, auth.ErrMissingToken):
				return c.Status(401).JSON(fiber.Map{"error": err.Error()})
			default:
				log.Printf("session validation error: %v", err)
				return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
			}
		}

		c.Locals("claims", claims)
		c.Locals("user_id", claims.UserID)
		c.Locals("token", tokenString)
		return c.Next()
	}
}
