package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/taskpulse/go-todo/auth"
)

// fail maps a domain error to its HTTP status and error body. Unknown
// errors are logged in full and reported opaquely as 500.
func fail(c *fiber.Ctx, err error) error {
	var locked *auth.LockedError

	switch {
	case errors.As(err, &locked):
		return c.Status(423).JSON(fiber.Map{
			"error":        locked.Error(),
			"locked_until": locked.Until,
		})
	case errors.Is(err, auth.ErrMissingFields), errors.Is(err, auth.ErrPasswordTooShort):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrUserExists):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrBadCredentials), errors.Is(err, auth.ErrWrongPassword),
		errors.Is(err, auth.ErrNoSession), errors.Is(err, auth.ErrMissingToken):
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSessionExpired):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "internal server error"})
	}
}
