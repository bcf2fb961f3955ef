package entity

import "time"

// AssetStatus es el estado físico/operativo de un activo.
type AssetStatus string

const (
	AssetStatusNew              AssetStatus = "NEW"
	AssetStatusUsed             AssetStatus = "USED"
	AssetStatusInTransit        AssetStatus = "IN_TRANSIT"
	AssetStatusSold             AssetStatus = "SOLD"
	AssetStatusAssigned         AssetStatus = "ASSIGNED"
	AssetStatusUnderMaintenance AssetStatus = "UNDER_MAINTENANCE"
)

// lockedStatuses son los estados en que un activo no puede entrar a un traslado
// ni a una asignación de servicio.
var lockedStatuses = map[AssetStatus]bool{
	AssetStatusInTransit:        true,
	AssetStatusSold:             true,
	AssetStatusAssigned:         true,
	AssetStatusUnderMaintenance: true,
}

// IsLocked indica si el estado pertenece al conjunto bloqueado.
func (s AssetStatus) IsLocked() bool {
	return lockedStatuses[s]
}

// Asset es un activo físico serializado (máquina o repuesto serializado).
// Invariante: Status y BranchID solo los mutan las funciones de transición del
// ledger, nunca updates de campo ad-hoc. Un activo con ActiveTransferID o
// ActiveAssignmentID no nulo está "congelado": ninguna segunda operación
// concurrente puede reclamarlo.
type Asset struct {
	ID                 string
	SerialNumber       string // único
	Model              string
	Status             AssetStatus
	BranchID           string
	ActiveTransferID   *string
	ActiveAssignmentID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsFrozen indica si el activo está referenciado por un traslado o asignación activa.
func (a *Asset) IsFrozen() bool {
	return a.ActiveTransferID != nil || a.ActiveAssignmentID != nil
}
