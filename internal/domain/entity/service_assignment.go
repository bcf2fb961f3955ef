package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignmentStatus es el estado de una asignación de servicio al centro.
type AssignmentStatus string

const (
	AssignmentStatusAssigned        AssignmentStatus = "ASSIGNED"
	AssignmentStatusUnderInspection AssignmentStatus = "UNDER_INSPECTION"
	AssignmentStatusWaitingApproval AssignmentStatus = "WAITING_APPROVAL"
	AssignmentStatusRepaired        AssignmentStatus = "REPAIRED"
	AssignmentStatusRejected        AssignmentStatus = "REJECTED"
	AssignmentStatusReturned        AssignmentStatus = "RETURNED"
)

// IsTerminal indica si el estado no admite más transiciones.
func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentStatusReturned
}

// ServiceAssignment es una asignación de reparación de una máquina al centro de
// mantenimiento. PrevStatus conserva el estado nominal del activo antes de la
// asignación para restaurarlo al retornar.
type ServiceAssignment struct {
	ID                string
	SerialNumber      string
	OriginBranchID    string
	CenterBranchID    string
	Status            AssignmentStatus
	PrevStatus        AssetStatus
	EstimatedCost     *decimal.Decimal
	ApprovalRequestID *string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ApprovalStatus es el estado de una solicitud de aprobación de costo.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// ServiceApprovalRequest acompaña 1:1 a una asignación mientras el costo estimado
// supera el umbral de auto-aprobación. La respuesta de la sucursal de origen es el
// único evento que saca la asignación de WAITING_APPROVAL.
type ServiceApprovalRequest struct {
	ID            string
	AssignmentID  string
	RequestedCost decimal.Decimal
	Status        ApprovalStatus
	RespondedBy   *string
	RespondedAt   *time.Time
	CreatedAt     time.Time
}
