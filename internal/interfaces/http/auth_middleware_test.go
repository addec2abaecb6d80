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

	"github.com/jhoicas/suministros-api/internal/domain/authz"
	"github.com/jhoicas/suministros-api/internal/domain/entity"
	apphttp "github.com/jhoicas/suministros-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/suministros-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testCookieName = "token"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testIssuer     = "suministros-test"
	testExpMin     = 60
)

// buildTestApp: AuthMiddleware + Authorize(capability) + handler dummy.
func buildTestApp(capability authz.Capability) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, testCookieName),
		apphttp.Authorize(authz.Default(), capability),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func rawToken(t *testing.T, userID, username, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, username, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return "Bearer " + rawToken(t, testUserID, "tester", role)
}

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
// Authorize sobre rutas de administración
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(authz.UsersManage)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestAuthorize_StaffBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(authz.UsersManage)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleStaff))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestAuthorize_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(authz.UsersManage)
	resp := doRequest(t, app, "Bearer "+rawToken(t, testUserID, "tester", ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinToken_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(authz.UsersManage), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc"} {
		resp := doRequest(t, buildTestApp(authz.UsersManage), header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Contains(t, string(body), "INVALID_TOKEN", header)
	}
}

func TestAuthMiddleware_LeeCookieYQuery(t *testing.T) {
	app := buildTestApp(authz.SuppliesRead)
	tok := rawToken(t, testUserID, "tester", entity.RoleStaff)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: tok})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/protected?token="+tok, nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testCookieName), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"username": apphttp.GetUsername(c),
			"role":     apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleAdmin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "tester", body["username"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Authorize (política declarativa)
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_SegunPolitica(t *testing.T) {
	app := fiber.New()
	app.Get("/decide",
		apphttp.AuthMiddleware(testJWTSecret, testCookieName),
		apphttp.Authorize(authz.Default(), authz.RequestsDecide),
		func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) },
	)

	cases := map[string]int{
		entity.RoleAdmin: http.StatusNoContent,
		entity.RoleStaff: http.StatusForbidden,
		"":               http.StatusUnauthorized,
	}
	for role, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/decide", nil)
		req.Header.Set("Authorization", "Bearer "+rawToken(t, testUserID, "tester", role))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, "rol %q", role)
	}
}
