package handler

import (
	"go-jalin-ops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

// GetSuppliers returns all suppliers, newest first
// GET /api/suppliers
func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(suppliers)
}

// CreateSupplier adds a supplier record
// POST /api/suppliers
func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	supplier, err := h.service.CreateSupplier(&req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Supplier added successfully",
		"data":    supplier,
	})
}
