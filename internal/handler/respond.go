package handler

import (
	"errors"

	"go-jalin-ops/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// writeError maps service errors onto the HTTP taxonomy:
// validation 400, not found 404, duplicates and stock shortfalls 409,
// anything else 500 carrying the driver message for diagnostics.
func writeError(c *fiber.Ctx, err error) error {
	var stockErr *apperr.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(409).JSON(fiber.Map{
			"error":     stockErr.Error(),
			"material":  stockErr.Material,
			"needed":    stockErr.Needed,
			"available": stockErr.Available,
		})
	case errors.Is(err, apperr.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrDuplicate), errors.Is(err, apperr.ErrMaterialInUse):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// A concurrent insert can slip past the service pre-check and
		// trip the unique index instead; still a conflict, not a 500
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
}
