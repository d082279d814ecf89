package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-jalin-ops/internal/model"
	"go-jalin-ops/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newGatedApp() *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"message": "ok"}) }

	manage := app.Group("", RequireAuth(), RequireRole(model.RoleAdmin, model.RoleDirektur))
	manage.Put("/api/products/:id", ok)

	direktur := app.Group("", RequireAuth(), RequireRole(model.RoleDirektur))
	direktur.Put("/api/users/:id", ok)

	return app
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.GenerateToken(uuid.New(), "user@example.com", "Test User", role)
	assert.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	app := newGatedApp()

	t.Run("Missing token", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/products/"+uuid.NewString(), nil)
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Malformed header", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/products/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage token", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/api/products/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRole(t *testing.T) {
	app := newGatedApp()

	testCases := []struct {
		name               string
		role               string
		path               string
		expectedStatusCode int
	}{
		{"User cannot mutate products", model.RoleUser, "/api/products/", http.StatusForbidden},
		{"Admin can mutate products", model.RoleAdmin, "/api/products/", http.StatusOK},
		{"Direktur can mutate products", model.RoleDirektur, "/api/products/", http.StatusOK},
		{"Admin cannot change roles", model.RoleAdmin, "/api/users/", http.StatusForbidden},
		{"Direktur can change roles", model.RoleDirektur, "/api/users/", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", tc.path+uuid.NewString(), nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tc.role))

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)
		})
	}
}
