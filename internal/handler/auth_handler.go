package handler

import (
	"go-jalin-ops/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// CallbackRequest carries the verified profile from the OAuth
// provider. Token verification against the provider happens upstream;
// this endpoint only does the upsert and session minting.
type CallbackRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// LoginRequest represents the local fallback login body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Callback upserts the signed-in user and returns a session token
// POST /api/auth/callback
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	var req CallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email is required"})
	}

	response, err := h.authService.OAuthCallback(req.Email, req.Name, req.Image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(response)
}

// Login handles the email/password fallback
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email and password are required"})
	}

	response, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(response)
}
