package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "b1b9a1f2-0000-4000-8000-000000000001",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newProtectedApp(t *testing.T) *fiber.App {
	t.Setenv("JWT_SECRET", testSecret)

	app := fiber.New()
	app.Get("/staff", Protected(), StaffRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func TestStaffRequiredAllowsAdminAndDirectorate(t *testing.T) {
	app := newProtectedApp(t)

	for _, role := range []string{"admin", "directorate"} {
		req := httptest.NewRequest("GET", "/staff", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, role))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "role %s should be allowed", role)
	}
}

func TestStaffRequiredDeniesStudents(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/staff", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "student"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestProtectedRejectsMissingToken(t *testing.T) {
	app := newProtectedApp(t)

	req := httptest.NewRequest("GET", "/staff", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
