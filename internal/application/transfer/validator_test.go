package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maquipos/maquipos-api/internal/application/transfer"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/internal/infrastructure/memory"
)

// fixture arma un almacenamiento en memoria con dos sucursales activas, una
// inactiva y un lote de activos en distintos estados.
type fixture struct {
	store    *memory.Store
	branches *memory.BranchRepository
	ledger   *memory.AssetLedger
	policy   *scope.Policy

	from     entity.Branch
	to       entity.Branch
	inactive entity.Branch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:    store,
		branches: memory.NewBranchRepository(store),
		ledger:   memory.NewAssetLedger(store),
		policy:   scope.NewPolicy(scope.DefaultConfig()),
	}
	ctx := context.Background()
	now := time.Now()

	f.from = entity.Branch{ID: uuid.NewString(), Code: "SUC-A", Name: "Sucursal A", Type: entity.BranchTypeBranch, Active: true, CreatedAt: now, UpdatedAt: now}
	f.to = entity.Branch{ID: uuid.NewString(), Code: "SUC-B", Name: "Sucursal B", Type: entity.BranchTypeBranch, Active: true, CreatedAt: now, UpdatedAt: now}
	f.inactive = entity.Branch{ID: uuid.NewString(), Code: "SUC-X", Name: "Sucursal X", Type: entity.BranchTypeBranch, Active: false, CreatedAt: now, UpdatedAt: now}
	for _, b := range []entity.Branch{f.from, f.to, f.inactive} {
		b := b
		require.NoError(t, f.branches.Create(ctx, &b))
	}

	otherTransfer := uuid.NewString()
	assets := []entity.Asset{
		{ID: uuid.NewString(), SerialNumber: "SN-100", Model: "X1", Status: entity.AssetStatusUsed, BranchID: f.from.ID},
		{ID: uuid.NewString(), SerialNumber: "SN-101", Model: "X1", Status: entity.AssetStatusNew, BranchID: f.from.ID},
		{ID: uuid.NewString(), SerialNumber: "SN-SOLD", Model: "X1", Status: entity.AssetStatusSold, BranchID: f.from.ID},
		{ID: uuid.NewString(), SerialNumber: "SN-FROZEN", Model: "X1", Status: entity.AssetStatusInTransit, BranchID: f.from.ID, ActiveTransferID: &otherTransfer},
		{ID: uuid.NewString(), SerialNumber: "SN-AJENO", Model: "X1", Status: entity.AssetStatusUsed, BranchID: f.to.ID},
	}
	for _, a := range assets {
		a := a
		a.CreatedAt, a.UpdatedAt = now, now
		require.NoError(t, f.ledger.Create(ctx, &a))
	}
	return f
}

func (f *fixture) validator() *transfer.Validator {
	return transfer.NewValidator(f.branches, f.ledger, f.policy)
}

func (f *fixture) cashier() entity.Principal {
	return entity.Principal{UserID: uuid.NewString(), Role: entity.RoleCashier, BranchID: f.from.ID}
}

func TestValidate_PropuestaLimpia(t *testing.T) {
	f := newFixture(t)
	in := transfer.CreateInput{
		FromBranchID: f.from.ID,
		ToBranchID:   f.to.ID,
		Type:         entity.TransferTypeMachine,
		Serials:      []string{"SN-100", "SN-101"},
	}

	res, err := f.validator().Validate(context.Background(), in, f.cashier())
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidate_RecogeTodasLasViolaciones(t *testing.T) {
	// Una propuesta con varios defectos devuelve la lista completa, nunca solo
	// el primero.
	f := newFixture(t)
	in := transfer.CreateInput{
		FromBranchID: f.from.ID,
		ToBranchID:   f.inactive.ID,
		Type:         "PALLET",
		Serials:      []string{"SN-100", "SN-100", "SN-SOLD", "SN-FROZEN", "SN-NO-EXISTE", "SN-AJENO"},
	}

	res, err := f.validator().Validate(context.Background(), in, f.cashier())
	require.NoError(t, err)
	assert.False(t, res.Valid)

	joined := ""
	for _, e := range res.Errors {
		joined += e + "\n"
	}
	assert.Contains(t, joined, "tipo de traslado desconocido")
	assert.Contains(t, joined, "no está activa")
	assert.Contains(t, joined, "serial duplicado en la orden: SN-100")
	assert.Contains(t, joined, "SN-SOLD")
	assert.Contains(t, joined, "SN-FROZEN")
	assert.Contains(t, joined, "el activo SN-NO-EXISTE no existe")
	assert.Contains(t, joined, "el activo SN-AJENO no pertenece a la sucursal de origen")
	assert.GreaterOrEqual(t, len(res.Errors), 6)
}

func TestValidate_MismaSucursal(t *testing.T) {
	f := newFixture(t)
	in := transfer.CreateInput{
		FromBranchID: f.from.ID,
		ToBranchID:   f.from.ID,
		Type:         entity.TransferTypeMachine,
		Serials:      []string{"SN-100"},
	}

	res, err := f.validator().Validate(context.Background(), in, f.cashier())
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "origen y destino")
}

func TestValidate_PrincipalDeOtraSucursal(t *testing.T) {
	f := newFixture(t)
	in := transfer.CreateInput{
		FromBranchID: f.from.ID,
		ToBranchID:   f.to.ID,
		Type:         entity.TransferTypeMachine,
		Serials:      []string{"SN-100"},
	}
	ajeno := entity.Principal{UserID: uuid.NewString(), Role: entity.RoleCashier, BranchID: f.to.ID}

	res, err := f.validator().Validate(context.Background(), in, ajeno)
	require.NoError(t, err)
	assert.False(t, res.Valid)

	// Los roles globales y administrativos sí pueden originar desde cualquier sucursal.
	for _, role := range []entity.Role{entity.RoleSuperAdmin, entity.RoleAdminAffairs} {
		p := entity.Principal{UserID: uuid.NewString(), Role: role}
		res, err := f.validator().Validate(context.Background(), in, p)
		require.NoError(t, err)
		assert.True(t, res.Valid, "rol %s", role)
	}
}

func TestValidate_OrdenVacia(t *testing.T) {
	f := newFixture(t)
	in := transfer.CreateInput{
		FromBranchID: f.from.ID,
		ToBranchID:   f.to.ID,
		Type:         entity.TransferTypeSparePart,
	}

	res, err := f.validator().Validate(context.Background(), in, f.cashier())
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "la orden no tiene renglones")
}

func TestValidate_EsConsultivo(t *testing.T) {
	// Validate no muta nada: el activo sigue intacto tras un veredicto válido.
	f := newFixture(t)
	in := transfer.CreateInput{
		FromBranchID: f.from.ID,
		ToBranchID:   f.to.ID,
		Type:         entity.TransferTypeMachine,
		Serials:      []string{"SN-100"},
	}
	_, err := f.validator().Validate(context.Background(), in, f.cashier())
	require.NoError(t, err)

	a, err := f.ledger.GetBySerial(context.Background(), "SN-100")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, entity.AssetStatusUsed, a.Status)
	assert.Nil(t, a.ActiveTransferID)
}
