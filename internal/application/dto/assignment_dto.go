package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// CreateAssignmentRequest cuerpo para asignar una máquina al centro.
type CreateAssignmentRequest struct {
	SerialNumber   string `json:"serial_number" validate:"required,serial"`
	CenterBranchID string `json:"center_branch_id" validate:"required,uuid4"`
}

// AdvanceAssignmentRequest evento de avance de la asignación.
// estimated_cost es obligatorio con el evento DIAGNOSE.
type AdvanceAssignmentRequest struct {
	Event         string           `json:"event" validate:"required,oneof=INSPECT DIAGNOSE RETURN"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
}

// RespondApprovalRequest respuesta de la sucursal de origen a la aprobación de costo.
type RespondApprovalRequest struct {
	Approve bool `json:"approve"`
}

// AssignmentResponse representación HTTP de una asignación de servicio.
type AssignmentResponse struct {
	ID                string           `json:"id"`
	SerialNumber      string           `json:"serial_number"`
	OriginBranchID    string           `json:"origin_branch_id"`
	CenterBranchID    string           `json:"center_branch_id"`
	Status            string           `json:"status"`
	PrevStatus        string           `json:"prev_status"`
	EstimatedCost     *decimal.Decimal `json:"estimated_cost,omitempty"`
	ApprovalRequestID *string          `json:"approval_request_id,omitempty"`
	CreatedBy         string           `json:"created_by"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToAssignmentResponse mapea la entidad al DTO de respuesta.
func ToAssignmentResponse(a *entity.ServiceAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:                a.ID,
		SerialNumber:      a.SerialNumber,
		OriginBranchID:    a.OriginBranchID,
		CenterBranchID:    a.CenterBranchID,
		Status:            string(a.Status),
		PrevStatus:        string(a.PrevStatus),
		EstimatedCost:     a.EstimatedCost,
		ApprovalRequestID: a.ApprovalRequestID,
		CreatedBy:         a.CreatedBy,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
