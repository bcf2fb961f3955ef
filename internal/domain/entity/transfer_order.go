package entity

import "time"

// TransferStatus es el estado de una orden de traslado.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusAccepted  TransferStatus = "ACCEPTED"
	TransferStatusReceived  TransferStatus = "RECEIVED"
	TransferStatusRejected  TransferStatus = "REJECTED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsTerminal indica si el estado no admite más transiciones.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusReceived || s == TransferStatusRejected || s == TransferStatusCancelled
}

// Tipos de traslado.
const (
	TransferTypeMachine   = "MACHINE"
	TransferTypeSparePart = "SPARE_PART"
)

// TransferItem es un renglón de la orden. PrevStatus es el estado nominal del
// activo antes de congelarlo; se usa para restaurarlo exacto al recibir o rechazar.
type TransferItem struct {
	SerialNumber string
	PrevStatus   AssetStatus
}

// TransferOrder es una orden de traslado de activos entre sucursales.
// Nunca se borra: se retiene para auditoría. Solo el orquestador de traslados
// la crea y la transiciona.
type TransferOrder struct {
	ID           string
	FromBranchID string
	ToBranchID   string
	Type         string // MACHINE | SPARE_PART
	Status       TransferStatus
	Reason       string // motivo de rechazo, si aplica
	Items        []TransferItem
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Serials devuelve los seriales de los renglones de la orden.
func (o *TransferOrder) Serials() []string {
	out := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, it.SerialNumber)
	}
	return out
}
