package entity

import "time"

// Tipos de sucursal.
const (
	BranchTypeBranch = "BRANCH" // sucursal comercial
	BranchTypeCenter = "CENTER" // centro de mantenimiento
)

// Branch representa una unidad organizacional (sucursal o centro de mantenimiento)
// dueña de datos y de activos. Identidad inmutable; la jerarquía (ParentID) se usa
// para decidir visibilidad: una sucursal padre puede ver los datos de sus hijas.
type Branch struct {
	ID        string
	Code      string
	Name      string
	Type      string // BRANCH | CENTER
	ParentID  *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive verifica si la sucursal está activa.
func (b *Branch) IsActive() bool {
	return b.Active
}

// IsCenter verifica si la unidad es un centro de mantenimiento.
func (b *Branch) IsCenter() bool {
	return b.Type == BranchTypeCenter
}
