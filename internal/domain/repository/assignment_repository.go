package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// AssignmentRepository define el puerto de persistencia para ServiceAssignment.
// Igual que con las órdenes de traslado, toda transición es condicional.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.ServiceAssignment) error
	GetByID(ctx context.Context, id string) (*entity.ServiceAssignment, error)
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.ServiceAssignment, error)

	// UpdateStatus transiciona la asignación solo si su estado actual está en `from`.
	UpdateStatus(ctx context.Context, id string, from []entity.AssignmentStatus, to entity.AssignmentStatus) error

	// SetDiagnosis registra el costo estimado y transiciona desde UNDER_INSPECTION
	// a WAITING_APPROVAL (con approvalID) o directo a REPAIRED (approvalID nil).
	SetDiagnosis(ctx context.Context, id string, to entity.AssignmentStatus, cost decimal.Decimal, approvalID *string) error
}

// ApprovalRepository define el puerto para las solicitudes de aprobación de costo.
type ApprovalRepository interface {
	Create(ctx context.Context, req *entity.ServiceApprovalRequest) error
	GetByID(ctx context.Context, id string) (*entity.ServiceApprovalRequest, error)

	// Respond marca la solicitud APPROVED/REJECTED solo si sigue PENDING.
	Respond(ctx context.Context, id string, status entity.ApprovalStatus, respondedBy string) error
}
