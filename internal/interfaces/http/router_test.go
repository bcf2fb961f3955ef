package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/infrastructure/memory"
	apphttp "github.com/maquipos/maquipos-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildRouterApp arma la app con el router real y repos en memoria. Los casos
// de uso no se inyectan: estas pruebas solo tocan las rutas de catálogo.
func buildRouterApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	branches := memory.NewBranchRepository(store)
	require.NoError(t, branches.Create(context.Background(), &entity.Branch{
		ID: "b1", Code: "SUC-1", Name: "Principal", Type: entity.BranchTypeBranch, Active: true,
	}))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Branches:  branches,
		JWTSecret: testJWTSecret,
	})
	return app
}

func getBranches(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/branches", nil)
	req.Header.Set("Authorization", authHeader)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de autorización por rol sobre /api/branches
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_BranchesPermitidoParaRolesAdministrativos(t *testing.T) {
	app := buildRouterApp(t)

	for _, role := range []entity.Role{
		entity.RoleSuperAdmin,
		entity.RoleManagement,
		entity.RoleAdminAffairs,
		entity.RoleCSSupervisor,
		entity.RoleCenterManager,
	} {
		t.Run(string(role), func(t *testing.T) {
			resp := getBranches(t, app, tokenFor(t, role, testBranchID))
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestRouter_BranchesVedadoParaRolesOperativos(t *testing.T) {
	app := buildRouterApp(t)

	for _, role := range []entity.Role{
		entity.RoleCSAgent,
		entity.RoleTechnician,
		entity.RoleCashier,
	} {
		t.Run(string(role), func(t *testing.T) {
			resp := getBranches(t, app, tokenFor(t, role, testBranchID))
			defer resp.Body.Close()
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}
