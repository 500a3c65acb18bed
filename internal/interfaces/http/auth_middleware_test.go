package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/invogen/billing-api/internal/interfaces/http"
	pkgjwt "github.com/invogen/billing-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testShopID    = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "billing-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware y un
// handler dummy que devuelve los locals cargados.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"user_id": apphttp.GetUserID(c),
				"shop_id": apphttp.GetShopID(c),
			})
		},
	)
	return app
}

// validToken genera un JWT firmado con el secreto de test.
func validToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testShopID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoCargaLocals(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, validToken(t))
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, testUserID, out["user_id"])
	assert.Equal(t, testShopID, out["shop_id"])
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenManipulado(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, validToken(t)+"x")
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretoDistinto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", testUserID, testShopID, testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testShopID, testIssuer, -5)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
