package dto

import (
	"time"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// ListAssetsRequest parámetros de query para el listado de activos.
// all_branches es el marcador explícito de bypass de scope: solo lo honran los
// roles con derecho, y su uso queda auditado.
type ListAssetsRequest struct {
	PageRequest
	Status      string `query:"status" validate:"omitempty,oneof=NEW USED IN_TRANSIT SOLD ASSIGNED UNDER_MAINTENANCE"`
	Serial      string `query:"serial" validate:"omitempty,serial"`
	AllBranches bool   `query:"all_branches"`
}

// AssetResponse representación HTTP de un activo.
type AssetResponse struct {
	ID                 string    `json:"id"`
	SerialNumber       string    `json:"serial_number"`
	Model              string    `json:"model,omitempty"`
	Status             string    `json:"status"`
	BranchID           string    `json:"branch_id"`
	ActiveTransferID   *string   `json:"active_transfer_id,omitempty"`
	ActiveAssignmentID *string   `json:"active_assignment_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AssetListResponse listado paginado de activos.
type AssetListResponse struct {
	Items []AssetResponse `json:"items"`
	Page  PageRequest     `json:"page"`
}

// ToAssetResponse mapea la entidad al DTO de respuesta.
func ToAssetResponse(a *entity.Asset) AssetResponse {
	return AssetResponse{
		ID:                 a.ID,
		SerialNumber:       a.SerialNumber,
		Model:              a.Model,
		Status:             string(a.Status),
		BranchID:           a.BranchID,
		ActiveTransferID:   a.ActiveTransferID,
		ActiveAssignmentID: a.ActiveAssignmentID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
