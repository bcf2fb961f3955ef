package dto

import (
	"time"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// BranchResponse representación HTTP de una sucursal.
type BranchResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToBranchResponse mapea la entidad al DTO de respuesta.
func ToBranchResponse(b *entity.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Code:      b.Code,
		Name:      b.Name,
		Type:      b.Type,
		ParentID:  b.ParentID,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
	}
}
