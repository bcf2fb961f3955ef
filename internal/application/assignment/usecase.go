package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/pkg/logger"
)

// Eventos de avance de una asignación.
const (
	EventInspect  = "INSPECT"  // ASSIGNED -> UNDER_INSPECTION
	EventDiagnose = "DIAGNOSE" // UNDER_INSPECTION -> WAITING_APPROVAL | REPAIRED
	EventReturn   = "RETURN"   // REPAIRED | REJECTED -> RETURNED
)

// CreateInput es la solicitud de asignación de una máquina al centro.
type CreateInput struct {
	SerialNumber   string
	CenterBranchID string
}

// AdvanceInput es el evento de avance. EstimatedCost es obligatorio en DIAGNOSE.
type AdvanceInput struct {
	Event         string
	EstimatedCost *decimal.Decimal
}

// UseCase es la máquina de estados hermana del orquestador de traslados, para
// reparaciones en el centro de mantenimiento:
//
//	ASSIGNED -> UNDER_INSPECTION -> WAITING_APPROVAL -> {REPAIRED | REJECTED} -> RETURNED
//
// WAITING_APPROVAL solo se entra cuando el costo estimado supera el umbral de
// auto-aprobación; por debajo, UNDER_INSPECTION pasa directo a REPAIRED.
// RETURNED es terminal y usa el mismo patrón de mutación del ledger que
// Receive: el activo vuelve a su sucursal de origen con su estado restaurado.
type UseCase struct {
	tx          TxRunner
	branches    repository.BranchRepository
	ledger      repository.AssetLedger
	assignments repository.AssignmentRepository
	approvals   repository.ApprovalRepository
	policy      *scope.Policy
	threshold   decimal.Decimal
	log         *logger.Logger
}

// NewUseCase construye el orquestador de asignaciones.
func NewUseCase(
	tx TxRunner,
	branches repository.BranchRepository,
	ledger repository.AssetLedger,
	assignments repository.AssignmentRepository,
	approvals repository.ApprovalRepository,
	policy *scope.Policy,
	threshold decimal.Decimal,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx: tx, branches: branches, ledger: ledger, assignments: assignments,
		approvals: approvals, policy: policy, threshold: threshold, log: log,
	}
}

// Create asigna una máquina al centro: valida, y en una transacción inserta la
// asignación en ASSIGNED y congela el activo (UNDER_MAINTENANCE, movido al
// centro, active_assignment_id fijado).
func (uc *UseCase) Create(ctx context.Context, in CreateInput, p entity.Principal) (*entity.ServiceAssignment, error) {
	asset, err := uc.ledger.GetBySerial(ctx, in.SerialNumber)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.ErrNotFound
	}
	if !uc.policy.IsGlobal(p.Role) && !uc.policy.IsBranchAdmin(p.Role) && p.BranchID != asset.BranchID {
		return nil, domain.ErrForbidden
	}

	var errs []string
	center, err := uc.branches.GetByID(ctx, in.CenterBranchID)
	if err != nil {
		return nil, err
	}
	switch {
	case center == nil:
		errs = append(errs, fmt.Sprintf("el centro %s no existe", in.CenterBranchID))
	case !center.IsCenter():
		errs = append(errs, fmt.Sprintf("la sucursal %s no es un centro de mantenimiento", center.Code))
	case !center.IsActive():
		errs = append(errs, fmt.Sprintf("el centro %s no está activo", center.Code))
	}
	if asset.Status.IsLocked() {
		errs = append(errs, fmt.Sprintf("el activo %s está en estado %s y no puede asignarse", asset.SerialNumber, asset.Status))
	}
	if asset.IsFrozen() {
		errs = append(errs, fmt.Sprintf("el activo %s está congelado por otra operación activa", asset.SerialNumber))
	}
	if len(errs) > 0 {
		return nil, domain.NewValidationError(errs)
	}

	now := time.Now()
	assignment := &entity.ServiceAssignment{
		ID:             uuid.New().String(),
		SerialNumber:   asset.SerialNumber,
		OriginBranchID: asset.BranchID,
		CenterBranchID: in.CenterBranchID,
		Status:         entity.AssignmentStatusAssigned,
		PrevStatus:     asset.Status,
		CreatedBy:      p.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.tx.RunAssignment(ctx, func(ledger repository.AssetLedger, assignments repository.AssignmentRepository, _ repository.ApprovalRepository, audit repository.AuditTrail) error {
		if err := assignments.Create(ctx, assignment); err != nil {
			return err
		}
		// La re-verificación del congelamiento vive en el update condicional.
		if err := ledger.BeginAssignment(ctx, assignment.SerialNumber, assignment.ID, assignment.CenterBranchID); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return domain.NewConflictError("activo no disponible para asignación", assignment.SerialNumber)
			}
			return err
		}
		return audit.Record(ctx, uc.auditEntry(p, entity.AuditAssignmentCreated, assignment.ID,
			fmt.Sprintf("serial=%s centro=%s", assignment.SerialNumber, assignment.CenterBranchID)))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("assignment", assignment.ID).Str("serial", assignment.SerialNumber).Msg("asignación de servicio creada")
	return assignment, nil
}

// Advance aplica un evento de avance a la asignación.
func (uc *UseCase) Advance(ctx context.Context, assignmentID string, in AdvanceInput, p entity.Principal) (*entity.ServiceAssignment, error) {
	return uc.transition(ctx, assignmentID, func(a *entity.ServiceAssignment) error {
		switch in.Event {
		case EventInspect:
			return uc.inspect(ctx, a, p)
		case EventDiagnose:
			return uc.diagnose(ctx, a, in.EstimatedCost, p)
		case EventReturn:
			return uc.returnToOrigin(ctx, a, p)
		default:
			return domain.NewValidationError([]string{fmt.Sprintf("evento de avance desconocido: %q", in.Event)})
		}
	})
}

func (uc *UseCase) inspect(ctx context.Context, a *entity.ServiceAssignment, p entity.Principal) error {
	if err := uc.authorizeAnyBranch(p, a.CenterBranchID); err != nil {
		return err
	}
	return uc.tx.RunAssignment(ctx, func(_ repository.AssetLedger, assignments repository.AssignmentRepository, _ repository.ApprovalRepository, audit repository.AuditTrail) error {
		if err := assignments.UpdateStatus(ctx, a.ID, []entity.AssignmentStatus{entity.AssignmentStatusAssigned}, entity.AssignmentStatusUnderInspection); err != nil {
			return err
		}
		return audit.Record(ctx, uc.auditEntry(p, entity.AuditAssignmentAdvanced, a.ID, "a=UNDER_INSPECTION"))
	})
}

// diagnose registra el costo estimado. Por encima del umbral crea la solicitud
// de aprobación y pasa a WAITING_APPROVAL; por debajo pasa directo a REPAIRED.
func (uc *UseCase) diagnose(ctx context.Context, a *entity.ServiceAssignment, cost *decimal.Decimal, p entity.Principal) error {
	if err := uc.authorizeAnyBranch(p, a.CenterBranchID); err != nil {
		return err
	}
	if cost == nil || cost.IsNegative() {
		return domain.NewValidationError([]string{"DIAGNOSE exige un costo estimado no negativo"})
	}
	return uc.tx.RunAssignment(ctx, func(_ repository.AssetLedger, assignments repository.AssignmentRepository, approvals repository.ApprovalRepository, audit repository.AuditTrail) error {
		if cost.GreaterThan(uc.threshold) {
			req := &entity.ServiceApprovalRequest{
				ID:            uuid.New().String(),
				AssignmentID:  a.ID,
				RequestedCost: *cost,
				Status:        entity.ApprovalStatusPending,
				CreatedAt:     time.Now(),
			}
			if err := approvals.Create(ctx, req); err != nil {
				return err
			}
			if err := assignments.SetDiagnosis(ctx, a.ID, entity.AssignmentStatusWaitingApproval, *cost, &req.ID); err != nil {
				return err
			}
			return audit.Record(ctx, uc.auditEntry(p, entity.AuditAssignmentAdvanced, a.ID,
				fmt.Sprintf("a=WAITING_APPROVAL costo=%s solicitud=%s", cost, req.ID)))
		}
		if err := assignments.SetDiagnosis(ctx, a.ID, entity.AssignmentStatusRepaired, *cost, nil); err != nil {
			return err
		}
		return audit.Record(ctx, uc.auditEntry(p, entity.AuditAssignmentAdvanced, a.ID,
			fmt.Sprintf("a=REPAIRED costo=%s auto-aprobado", cost)))
	})
}

// returnToOrigin cierra la asignación: el activo vuelve a su sucursal de origen
// con su estado nominal restaurado (mismo patrón de ledger que Receive).
func (uc *UseCase) returnToOrigin(ctx context.Context, a *entity.ServiceAssignment, p entity.Principal) error {
	if err := uc.authorizeAnyBranch(p, a.CenterBranchID, a.OriginBranchID); err != nil {
		return err
	}
	return uc.tx.RunAssignment(ctx, func(ledger repository.AssetLedger, assignments repository.AssignmentRepository, _ repository.ApprovalRepository, audit repository.AuditTrail) error {
		from := []entity.AssignmentStatus{entity.AssignmentStatusRepaired, entity.AssignmentStatusRejected}
		if err := assignments.UpdateStatus(ctx, a.ID, from, entity.AssignmentStatusReturned); err != nil {
			return err
		}
		if err := ledger.CompleteAssignment(ctx, a.SerialNumber, a.ID, a.OriginBranchID, a.PrevStatus); err != nil {
			return err
		}
		return audit.Record(ctx, uc.auditEntry(p, entity.AuditAssignmentAdvanced, a.ID,
			fmt.Sprintf("a=RETURNED origen=%s", a.OriginBranchID)))
	})
}

// RespondToApproval registra la respuesta de la sucursal de origen a una
// solicitud de aprobación de costo. Es el ÚNICO evento que saca la asignación
// de WAITING_APPROVAL: APPROVED -> REPAIRED, REJECTED -> REJECTED.
func (uc *UseCase) RespondToApproval(ctx context.Context, approvalID string, approve bool, p entity.Principal) (*entity.ServiceAssignment, error) {
	req, err := uc.approvals.GetByID(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return uc.transition(ctx, req.AssignmentID, func(a *entity.ServiceAssignment) error {
		if err := uc.authorizeAnyBranch(p, a.OriginBranchID); err != nil {
			return err
		}
		return uc.tx.RunAssignment(ctx, func(_ repository.AssetLedger, assignments repository.AssignmentRepository, approvals repository.ApprovalRepository, audit repository.AuditTrail) error {
			reqStatus, next := entity.ApprovalStatusApproved, entity.AssignmentStatusRepaired
			if !approve {
				reqStatus, next = entity.ApprovalStatusRejected, entity.AssignmentStatusRejected
			}
			if err := approvals.Respond(ctx, approvalID, reqStatus, p.UserID); err != nil {
				return err
			}
			if err := assignments.UpdateStatus(ctx, a.ID, []entity.AssignmentStatus{entity.AssignmentStatusWaitingApproval}, next); err != nil {
				return err
			}
			return audit.Record(ctx, uc.auditEntry(p, entity.AuditApprovalResponded, approvalID,
				fmt.Sprintf("asignación=%s resultado=%s", a.ID, reqStatus)))
		})
	})
}

// transition lee estado fresco, aplica fn y reintenta una única vez si un update
// condicional perdió la carrera. Una asignación terminal falla con ConflictError
// sin mutación alguna.
func (uc *UseCase) transition(ctx context.Context, id string, fn func(a *entity.ServiceAssignment) error) (*entity.ServiceAssignment, error) {
	attempt := func() (*entity.ServiceAssignment, error) {
		a, err := uc.assignments.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, domain.ErrNotFound
		}
		if a.Status.IsTerminal() {
			return nil, domain.NewConflictError(fmt.Sprintf("la asignación %s ya está en estado terminal %s", id, a.Status))
		}
		if err := fn(a); err != nil {
			return nil, err
		}
		return uc.assignments.GetByID(ctx, id)
	}

	out, err := attempt()
	if err != nil && errors.Is(err, domain.ErrConflict) {
		uc.log.Debug().Str("assignment", id).Msg("transición perdió la carrera; reintentando con estado fresco")
		out, err = attempt()
	}
	return out, err
}

func (uc *UseCase) authorizeAnyBranch(p entity.Principal, branchIDs ...string) error {
	if uc.policy.IsGlobal(p.Role) {
		return nil
	}
	for _, id := range branchIDs {
		if p.BranchID == id {
			return nil
		}
	}
	return domain.ErrForbidden
}

func (uc *UseCase) auditEntry(p entity.Principal, action, entityID, detail string) *entity.AuditEntry {
	return &entity.AuditEntry{
		ID:         uuid.New().String(),
		Actor:      p.UserID,
		Action:     action,
		EntityType: "service_assignment",
		EntityID:   entityID,
		Detail:     detail,
		Timestamp:  time.Now(),
	}
}
