package scope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appscope "github.com/maquipos/maquipos-api/internal/application/scope"
	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	domscope "github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/internal/infrastructure/memory"
	"github.com/maquipos/maquipos-api/pkg/logger"
)

func newScoper(t *testing.T) (*appscope.Scoper, *memory.AuditTrail) {
	t.Helper()
	store := memory.NewStore()
	audit := memory.NewAuditTrail(store)
	policy := domscope.NewPolicy(domscope.DefaultConfig())
	return appscope.NewScoper(policy, audit, logger.Nop()), audit
}

func TestScopeCollection_ConfinaAlCajero(t *testing.T) {
	scoper, audit := newScoper(t)
	p := entity.Principal{UserID: "u1", Role: entity.RoleCashier, BranchID: "b1"}

	out, err := scoper.ScopeCollection(context.Background(), "assets.list", domscope.NewCollectionFilter(), p)
	require.NoError(t, err)

	assert.Equal(t, "b1", out.BranchID())
	assert.False(t, out.BypassRequested())
	assert.Empty(t, audit.Entries(), "confinamiento normal no audita")
}

func TestScopeCollection_FiltroExplicitoDeSucursalAjenaSePisa(t *testing.T) {
	// Un no-global que pide explícitamente la sucursal de otro queda igualmente
	// confinado a la suya.
	scoper, _ := newScoper(t)
	p := entity.Principal{UserID: "u1", Role: entity.RoleCashier, BranchID: "b1"}

	in := domscope.NewCollectionFilter().WithBranch("b2")
	out, err := scoper.ScopeCollection(context.Background(), "assets.list", in, p)
	require.NoError(t, err)

	assert.Equal(t, "b1", out.BranchID())
}

func TestScopeCollection_RolGlobalSinFiltro(t *testing.T) {
	scoper, audit := newScoper(t)
	p := entity.Principal{UserID: "u1", Role: entity.RoleManagement}

	out, err := scoper.ScopeCollection(context.Background(), "assets.list", domscope.NewCollectionFilter(), p)
	require.NoError(t, err)

	assert.False(t, out.HasBranch())
	assert.Empty(t, audit.Entries())
}

func TestScopeCollection_BypassDeRolGlobalSeAuditaUnaVez(t *testing.T) {
	scoper, audit := newScoper(t)
	p := entity.Principal{UserID: "u1", Role: entity.RoleSuperAdmin}

	in := domscope.NewCollectionFilter().WithBypass()
	out, err := scoper.ScopeCollection(context.Background(), "assets.list", in, p)
	require.NoError(t, err)

	assert.False(t, out.HasBranch())
	assert.False(t, out.BypassRequested(), "el marcador jamás sale del scoper")

	entries := audit.Entries()
	require.Len(t, entries, 1, "exactamente un registro por uso del bypass")
	assert.Equal(t, entity.AuditScopeBypass, entries[0].Action)
	assert.Equal(t, "u1", entries[0].Actor)
	assert.Equal(t, "assets.list", entries[0].EntityID)
}

func TestScopeCollection_AdminSinSucursalObtieneBypass(t *testing.T) {
	// Excepción estrecha: cuenta administrativa ligada a sucursal pero SIN
	// sucursal propia resoluble. El confinamiento sería vacuo; se honra el
	// bypass y se audita.
	scoper, audit := newScoper(t)
	p := entity.Principal{UserID: "u1", Role: entity.RoleAdminAffairs}

	in := domscope.NewCollectionFilter().WithBypass()
	out, err := scoper.ScopeCollection(context.Background(), "assets.list", in, p)
	require.NoError(t, err)

	assert.False(t, out.HasBranch())
	assert.Len(t, audit.Entries(), 1)
}

func TestScopeCollection_SinSucursalYSinBypassNoDejaPasarSinFiltro(t *testing.T) {
	// Un no-global sin sucursal resoluble no tiene a qué confinarse. Dejar
	// pasar WithBranch("") sería una lectura global silenciosa y sin auditar:
	// se falla como contrato roto, nunca se devuelve un filtro vacío.
	scoper, audit := newScoper(t)

	tests := []struct {
		name string
		p    entity.Principal
	}{
		{"técnico sin sucursal", entity.Principal{UserID: "u1", Role: entity.RoleTechnician}},
		{"cajero sin sucursal", entity.Principal{UserID: "u2", Role: entity.RoleCashier}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scoper.ScopeCollection(context.Background(), "assets.list", domscope.NewCollectionFilter(), tt.p)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
	assert.Empty(t, audit.Entries())
}

func TestScopeCollection_BypassSinDerechoEsErrorDeConfiguracion(t *testing.T) {
	scoper, audit := newScoper(t)

	tests := []struct {
		name string
		p    entity.Principal
	}{
		{"cajero con sucursal", entity.Principal{UserID: "u1", Role: entity.RoleCashier, BranchID: "b1"}},
		{"admin CON sucursal propia", entity.Principal{UserID: "u2", Role: entity.RoleCSSupervisor, BranchID: "b1"}},
		{"técnico sin sucursal", entity.Principal{UserID: "u3", Role: entity.RoleTechnician}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := domscope.NewCollectionFilter().WithBypass()
			_, err := scoper.ScopeCollection(context.Background(), "assets.list", in, tt.p)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
	assert.Empty(t, audit.Entries(), "un bypass denegado no se registra como usado")
}
