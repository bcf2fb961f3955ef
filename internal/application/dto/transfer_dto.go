package dto

import (
	"time"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// CreateTransferRequest cuerpo para crear (o pre-validar) un traslado.
type CreateTransferRequest struct {
	FromBranchID string   `json:"from_branch_id" validate:"required,uuid4"`
	ToBranchID   string   `json:"to_branch_id" validate:"required,uuid4"`
	Type         string   `json:"type" validate:"required,oneof=MACHINE SPARE_PART"`
	Serials      []string `json:"serials" validate:"required,min=1,dive,serial"`
}

// RejectTransferRequest cuerpo para rechazar un traslado.
type RejectTransferRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ValidateTransferResponse veredicto consultivo del pre-vuelo.
type ValidateTransferResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// TransferItemResponse renglón de la orden.
type TransferItemResponse struct {
	SerialNumber string `json:"serial_number"`
	PrevStatus   string `json:"prev_status"`
}

// TransferOrderResponse representación HTTP de una orden de traslado.
type TransferOrderResponse struct {
	ID           string                 `json:"id"`
	FromBranchID string                 `json:"from_branch_id"`
	ToBranchID   string                 `json:"to_branch_id"`
	Type         string                 `json:"type"`
	Status       string                 `json:"status"`
	Reason       string                 `json:"reason,omitempty"`
	Items        []TransferItemResponse `json:"items"`
	CreatedBy    string                 `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ToTransferOrderResponse mapea la entidad al DTO de respuesta.
func ToTransferOrderResponse(o *entity.TransferOrder) TransferOrderResponse {
	items := make([]TransferItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, TransferItemResponse{
			SerialNumber: it.SerialNumber,
			PrevStatus:   string(it.PrevStatus),
		})
	}
	return TransferOrderResponse{
		ID:           o.ID,
		FromBranchID: o.FromBranchID,
		ToBranchID:   o.ToBranchID,
		Type:         o.Type,
		Status:       string(o.Status),
		Reason:       o.Reason,
		Items:        items,
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
