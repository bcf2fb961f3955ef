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

	"github.com/maquipos/maquipos-api/internal/domain/entity"
	apphttp "github.com/maquipos/maquipos-api/internal/interfaces/http"
	pkgjwt "github.com/maquipos/maquipos-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testBranchID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "maquipos-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar el principal en locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve el principal reconstruido
func buildTestApp(allowedRoles ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			p := apphttp.GetPrincipal(c)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":        true,
				"user_id":   p.UserID,
				"role":      string(p.Role),
				"branch_id": p.BranchID,
			})
		},
	)
	return app
}

// tokenFor genera un JWT con el rol y la sucursal indicados.
func tokenFor(t *testing.T, role entity.Role, branchID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, string(role), branchID, testIssuer, testExpMin)
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
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeaderRetorna401(t *testing.T) {
	app := buildTestApp(entity.RoleCashier)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalidoRetorna401(t *testing.T) {
	app := buildTestApp(entity.RoleCashier)
	resp := doRequest(t, app, "Basic abc123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenConFirmaIncorrectaRetorna401(t *testing.T) {
	app := buildTestApp(entity.RoleCashier)
	tok, err := pkgjwt.Generate("otro-secreto", testUserID, string(entity.RoleCashier), testBranchID, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_CargaElPrincipalCompleto(t *testing.T) {
	app := buildTestApp(entity.RoleCashier)
	resp := doRequest(t, app, tokenFor(t, entity.RoleCashier, testBranchID))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, string(entity.RoleCashier), body["role"])
	assert.Equal(t, testBranchID, body["branch_id"])
}

func TestAuthMiddleware_CuentaSinSucursal(t *testing.T) {
	// Las cuentas administrativas sin sucursal propia viajan con branch_id vacío.
	app := buildTestApp(entity.RoleAdminAffairs)
	resp := doRequest(t, app, tokenFor(t, entity.RoleAdminAffairs, ""))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "", body["branch_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_RolPermitidoAccede(t *testing.T) {
	app := buildTestApp(entity.RoleSuperAdmin, entity.RoleManagement)
	resp := doRequest(t, app, tokenFor(t, entity.RoleManagement, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"gerencia debe poder acceder a ruta que permite SUPER_ADMIN o MANAGEMENT")
}

func TestRequireRole_RolNoPermitidoRecibe403(t *testing.T) {
	app := buildTestApp(entity.RoleSuperAdmin)
	resp := doRequest(t, app, tokenFor(t, entity.RoleCashier, testBranchID))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}
