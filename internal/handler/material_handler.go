package handler

import (
	"go-jalin-ops/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type MaterialHandler struct {
	service service.MaterialService
}

func NewMaterialHandler(s service.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: s}
}

// GetMaterials returns all raw materials, newest first
// GET /api/raw-materials
func (h *MaterialHandler) GetMaterials(c *fiber.Ctx) error {
	materials, err := h.service.GetAllMaterials()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(materials)
}

// CreateMaterial adds a raw material, stock defaults to 0
// POST /api/raw-materials
func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	var req service.MaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	material, err := h.service.CreateMaterial(&req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Raw material added successfully",
		"data":    material,
	})
}

// UpdateMaterial overwrites name and stock unconditionally
// PUT /api/raw-materials/:id
func (h *MaterialHandler) UpdateMaterial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raw material ID"})
	}

	var req service.MaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	material, err := h.service.UpdateMaterial(id, &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Raw material updated successfully",
		"data":    material,
	})
}

// DeleteMaterial removes a material unless products still require it
// DELETE /api/raw-materials/:id
func (h *MaterialHandler) DeleteMaterial(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raw material ID"})
	}

	if err := h.service.DeleteMaterial(id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Raw material deleted successfully"})
}
