package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleHealthCheck godoc
// @Summary Liveness check
// @Produce json
// @Success 200
// @Router /health [get]
func HandleHealthCheck(c *fiber.Ctx) error {
	return c.Status(200).JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC(),
	})
}
