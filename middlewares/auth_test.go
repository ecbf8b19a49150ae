package middlewares

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// loadJWTSecret reads the env exactly once per process.
	os.Setenv("JWT_SECRET", "test-secret-for-middleware-tests")
	os.Exit(m.Run())
}

func newAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", IsAuthenticatedHeader(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"login": c.Locals("userLogin"),
			"role":  c.Locals("role"),
		})
	})
	app.Delete("/admin-only", IsAuthenticatedHeader(), RequireRoles("admin"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "ok"})
	})
	return app
}

func TestAuthTokenRoundTrip(t *testing.T) {
	app := newAuthTestApp()

	token, err := GenerateJWT("jan", "regular")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRejectsMissingOrGarbageToken(t *testing.T) {
	app := newAuthTestApp()

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app := newAuthTestApp()

	adminToken, err := GenerateJWT("admin", "admin")
	require.NoError(t, err)
	regularToken, err := GenerateJWT("jan", "regular")
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("DELETE", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+regularToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
