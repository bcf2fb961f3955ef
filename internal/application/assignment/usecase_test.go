package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maquipos/maquipos-api/internal/application/assignment"
	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/internal/infrastructure/memory"
	"github.com/maquipos/maquipos-api/pkg/logger"
)

type fixture struct {
	store       *memory.Store
	ledger      *memory.AssetLedger
	assignments *memory.AssignmentRepository
	approvals   *memory.ApprovalRepository
	audit       *memory.AuditTrail
	uc          *assignment.UseCase

	origin entity.Branch
	center entity.Branch
}

// umbral de auto-aprobación usado en todos los tests
var threshold = decimal.NewFromInt(500000)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	branches := memory.NewBranchRepository(store)
	f := &fixture{
		store:       store,
		ledger:      memory.NewAssetLedger(store),
		assignments: memory.NewAssignmentRepository(store),
		approvals:   memory.NewApprovalRepository(store),
		audit:       memory.NewAuditTrail(store),
	}
	ctx := context.Background()
	now := time.Now()

	f.origin = entity.Branch{ID: uuid.NewString(), Code: "SUC-A", Name: "Sucursal A", Type: entity.BranchTypeBranch, Active: true, CreatedAt: now, UpdatedAt: now}
	f.center = entity.Branch{ID: uuid.NewString(), Code: "CENTRO", Name: "Centro de Mantenimiento", Type: entity.BranchTypeCenter, Active: true, CreatedAt: now, UpdatedAt: now}
	for _, b := range []entity.Branch{f.origin, f.center} {
		b := b
		require.NoError(t, branches.Create(ctx, &b))
	}

	require.NoError(t, f.ledger.Create(ctx, &entity.Asset{
		ID: uuid.NewString(), SerialNumber: "SN-200", Model: "X2",
		Status: entity.AssetStatusUsed, BranchID: f.origin.ID,
		CreatedAt: now, UpdatedAt: now,
	}))

	policy := scope.NewPolicy(scope.DefaultConfig())
	f.uc = assignment.NewUseCase(
		memory.NewTxRunner(store), branches, f.ledger, f.assignments, f.approvals,
		policy, threshold, logger.Nop(),
	)
	return f
}

func (f *fixture) originUser() entity.Principal {
	return entity.Principal{UserID: uuid.NewString(), Role: entity.RoleCashier, BranchID: f.origin.ID}
}

func (f *fixture) centerTech() entity.Principal {
	return entity.Principal{UserID: uuid.NewString(), Role: entity.RoleTechnician, BranchID: f.center.ID}
}

// createAssigned crea la asignación base SN-200 -> centro.
func (f *fixture) createAssigned(t *testing.T) *entity.ServiceAssignment {
	t.Helper()
	a, err := f.uc.Create(context.Background(), assignment.CreateInput{
		SerialNumber:   "SN-200",
		CenterBranchID: f.center.ID,
	}, f.originUser())
	require.NoError(t, err)
	return a
}

// diagnose lleva la asignación hasta el diagnóstico con el costo dado.
func (f *fixture) diagnose(t *testing.T, id string, cost decimal.Decimal) *entity.ServiceAssignment {
	t.Helper()
	ctx := context.Background()
	_, err := f.uc.Advance(ctx, id, assignment.AdvanceInput{Event: assignment.EventInspect}, f.centerTech())
	require.NoError(t, err)
	a, err := f.uc.Advance(ctx, id, assignment.AdvanceInput{Event: assignment.EventDiagnose, EstimatedCost: &cost}, f.centerTech())
	require.NoError(t, err)
	return a
}

func TestCreate_CongelaYMueveAlCentro(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)

	assert.Equal(t, entity.AssignmentStatusAssigned, a.Status)
	assert.Equal(t, entity.AssetStatusUsed, a.PrevStatus)
	assert.Equal(t, f.origin.ID, a.OriginBranchID)

	asset, err := f.ledger.GetBySerial(context.Background(), "SN-200")
	require.NoError(t, err)
	assert.Equal(t, entity.AssetStatusUnderMaintenance, asset.Status)
	assert.Equal(t, f.center.ID, asset.BranchID)
	require.NotNil(t, asset.ActiveAssignmentID)
	assert.Equal(t, a.ID, *asset.ActiveAssignmentID)

	entries := f.audit.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditAssignmentCreated, entries[0].Action)
}

func TestCreate_ValidacionesDeEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("serial inexistente", func(t *testing.T) {
		_, err := f.uc.Create(ctx, assignment.CreateInput{SerialNumber: "SN-999", CenterBranchID: f.center.ID}, f.originUser())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("destino que no es centro", func(t *testing.T) {
		_, err := f.uc.Create(ctx, assignment.CreateInput{SerialNumber: "SN-200", CenterBranchID: f.origin.ID}, f.originUser())
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Violations[0], "no es un centro de mantenimiento")
	})

	t.Run("principal de otra sucursal", func(t *testing.T) {
		ajeno := entity.Principal{UserID: uuid.NewString(), Role: entity.RoleCashier, BranchID: f.center.ID}
		_, err := f.uc.Create(ctx, assignment.CreateInput{SerialNumber: "SN-200", CenterBranchID: f.center.ID}, ajeno)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("activo ya asignado queda congelado", func(t *testing.T) {
		f := newFixture(t)
		f.createAssigned(t)
		_, err := f.uc.Create(ctx, assignment.CreateInput{SerialNumber: "SN-200", CenterBranchID: f.center.ID}, f.originUser())
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
	})
}

func TestAdvance_DiagnosticoBajoElUmbralAutoAprueba(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)

	done := f.diagnose(t, a.ID, threshold) // igual al umbral: NO supera
	assert.Equal(t, entity.AssignmentStatusRepaired, done.Status)
	assert.Nil(t, done.ApprovalRequestID, "sin solicitud de aprobación por debajo del umbral")
	require.NotNil(t, done.EstimatedCost)
	assert.True(t, done.EstimatedCost.Equal(threshold))
}

func TestAdvance_DiagnosticoSobreElUmbralExigeAprobacion(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)

	cost := threshold.Add(decimal.NewFromInt(1))
	waiting := f.diagnose(t, a.ID, cost)
	assert.Equal(t, entity.AssignmentStatusWaitingApproval, waiting.Status)
	require.NotNil(t, waiting.ApprovalRequestID)

	req, err := f.approvals.GetByID(context.Background(), *waiting.ApprovalRequestID)
	require.NoError(t, err)
	require.NotNil(t, req)
	assert.Equal(t, entity.ApprovalStatusPending, req.Status)
	assert.True(t, req.RequestedCost.Equal(cost))
}

func TestAdvance_DiagnosticoExigeCosto(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)
	ctx := context.Background()

	_, err := f.uc.Advance(ctx, a.ID, assignment.AdvanceInput{Event: assignment.EventInspect}, f.centerTech())
	require.NoError(t, err)

	_, err = f.uc.Advance(ctx, a.ID, assignment.AdvanceInput{Event: assignment.EventDiagnose}, f.centerTech())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negative := decimal.NewFromInt(-1)
	_, err = f.uc.Advance(ctx, a.ID, assignment.AdvanceInput{Event: assignment.EventDiagnose, EstimatedCost: &negative}, f.centerTech())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdvance_SoloElCentroInspecciona(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)

	_, err := f.uc.Advance(context.Background(), a.ID, assignment.AdvanceInput{Event: assignment.EventInspect}, f.originUser())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdvance_EventoFueraDeOrden(t *testing.T) {
	// DIAGNOSE sin pasar por UNDER_INSPECTION pierde el update condicional.
	f := newFixture(t)
	a := f.createAssigned(t)

	cost := decimal.NewFromInt(100)
	_, err := f.uc.Advance(context.Background(), a.ID, assignment.AdvanceInput{Event: assignment.EventDiagnose, EstimatedCost: &cost}, f.centerTech())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRespondToApproval_Aprobada(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)
	cost := threshold.Add(decimal.NewFromInt(50000))
	waiting := f.diagnose(t, a.ID, cost)

	repaired, err := f.uc.RespondToApproval(context.Background(), *waiting.ApprovalRequestID, true, f.originUser())
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStatusRepaired, repaired.Status)

	req, _ := f.approvals.GetByID(context.Background(), *waiting.ApprovalRequestID)
	assert.Equal(t, entity.ApprovalStatusApproved, req.Status)
	require.NotNil(t, req.RespondedBy)
}

func TestRespondToApproval_Rechazada(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)
	waiting := f.diagnose(t, a.ID, threshold.Add(decimal.NewFromInt(1)))

	rejected, err := f.uc.RespondToApproval(context.Background(), *waiting.ApprovalRequestID, false, f.originUser())
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStatusRejected, rejected.Status)
}

func TestRespondToApproval_SoloElOrigen(t *testing.T) {
	// La respuesta es de la sucursal de origen: el centro no decide su propio costo.
	f := newFixture(t)
	a := f.createAssigned(t)
	waiting := f.diagnose(t, a.ID, threshold.Add(decimal.NewFromInt(1)))

	_, err := f.uc.RespondToApproval(context.Background(), *waiting.ApprovalRequestID, true, f.centerTech())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRespondToApproval_DobleRespuesta(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)
	waiting := f.diagnose(t, a.ID, threshold.Add(decimal.NewFromInt(1)))
	ctx := context.Background()

	_, err := f.uc.RespondToApproval(ctx, *waiting.ApprovalRequestID, true, f.originUser())
	require.NoError(t, err)

	_, err = f.uc.RespondToApproval(ctx, *waiting.ApprovalRequestID, false, f.originUser())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReturn_RestauraElActivoEnOrigen(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)
	f.diagnose(t, a.ID, decimal.NewFromInt(1000)) // auto-aprobado -> REPAIRED
	ctx := context.Background()

	returned, err := f.uc.Advance(ctx, a.ID, assignment.AdvanceInput{Event: assignment.EventReturn}, f.centerTech())
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStatusReturned, returned.Status)

	asset, err := f.ledger.GetBySerial(ctx, "SN-200")
	require.NoError(t, err)
	assert.Equal(t, f.origin.ID, asset.BranchID)
	assert.Equal(t, entity.AssetStatusUsed, asset.Status)
	assert.Nil(t, asset.ActiveAssignmentID)

	// RETURNED es terminal: ningún evento posterior muta nada.
	_, err = f.uc.Advance(ctx, a.ID, assignment.AdvanceInput{Event: assignment.EventReturn}, f.centerTech())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReturn_TrasRechazoTambienRestaura(t *testing.T) {
	f := newFixture(t)
	a := f.createAssigned(t)
	waiting := f.diagnose(t, a.ID, threshold.Add(decimal.NewFromInt(1)))
	ctx := context.Background()

	_, err := f.uc.RespondToApproval(ctx, *waiting.ApprovalRequestID, false, f.originUser())
	require.NoError(t, err)

	returned, err := f.uc.Advance(ctx, a.ID, assignment.AdvanceInput{Event: assignment.EventReturn}, f.centerTech())
	require.NoError(t, err)
	assert.Equal(t, entity.AssignmentStatusReturned, returned.Status)

	asset, _ := f.ledger.GetBySerial(ctx, "SN-200")
	assert.Equal(t, f.origin.ID, asset.BranchID)
	assert.Equal(t, entity.AssetStatusUsed, asset.Status)
}
