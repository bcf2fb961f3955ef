package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
)

func TestPolicy_Decide_LecturasDeColeccion(t *testing.T) {
	policy := scope.NewPolicy(scope.DefaultConfig())

	tests := []struct {
		name string
		p    entity.Principal
		want scope.Mode
	}{
		{
			name: "rol global lista sin filtro",
			p:    entity.Principal{UserID: "u1", Role: entity.RoleSuperAdmin},
			want: scope.ModeNoFilter,
		},
		{
			name: "gerencia lista sin filtro",
			p:    entity.Principal{UserID: "u2", Role: entity.RoleManagement, BranchID: "b1"},
			want: scope.ModeNoFilter,
		},
		{
			name: "cajero queda confinado a su sucursal",
			p:    entity.Principal{UserID: "u3", Role: entity.RoleCashier, BranchID: "b1"},
			want: scope.ModeAutoFilter,
		},
		{
			name: "administrador ligado a sucursal también se confina",
			p:    entity.Principal{UserID: "u4", Role: entity.RoleCSSupervisor, BranchID: "b1"},
			want: scope.ModeAutoFilter,
		},
		{
			name: "rol desconocido cae al confinamiento por defecto",
			p:    entity.Principal{UserID: "u5", Role: "ROL_RARO", BranchID: "b1"},
			want: scope.ModeAutoFilter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Decide(scope.OpCollectionRead, tt.p))
		})
	}
}

func TestPolicy_Decide_ClaveUnicaNuncaLlevaFiltro(t *testing.T) {
	policy := scope.NewPolicy(scope.DefaultConfig())

	// Las búsquedas por clave única prohíben el filtro implícito para TODOS los
	// roles: la autorización es post-fetch.
	principals := []entity.Principal{
		{UserID: "u1", Role: entity.RoleSuperAdmin},
		{UserID: "u2", Role: entity.RoleCashier, BranchID: "b1"},
		{UserID: "u3", Role: entity.RoleAdminAffairs},
	}
	for _, p := range principals {
		assert.Equal(t, scope.ModeForbidImplicitFilter, policy.Decide(scope.OpUniqueRead, p))
		assert.Equal(t, scope.ModeForbidImplicitFilter, policy.Decide(scope.OpUniqueWrite, p))
	}
}

func TestPolicy_ConjuntosDeRoles(t *testing.T) {
	policy := scope.NewPolicy(scope.DefaultConfig())

	assert.True(t, policy.IsGlobal(entity.RoleSuperAdmin))
	assert.True(t, policy.IsGlobal(entity.RoleManagement))
	assert.False(t, policy.IsGlobal(entity.RoleCashier))
	assert.False(t, policy.IsGlobal(entity.RoleAdminAffairs))

	assert.True(t, policy.IsBranchAdmin(entity.RoleAdminAffairs))
	assert.True(t, policy.IsBranchAdmin(entity.RoleCSSupervisor))
	assert.True(t, policy.IsBranchAdmin(entity.RoleCenterManager))
	assert.False(t, policy.IsBranchAdmin(entity.RoleSuperAdmin))
	assert.False(t, policy.IsBranchAdmin(entity.RoleTechnician))
}
