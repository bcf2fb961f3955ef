package entity

import "time"

// Acciones registradas en la bitácora de auditoría.
const (
	AuditScopeBypass        = "SCOPE_BYPASS"
	AuditTransferCreated    = "TRANSFER_CREATED"
	AuditTransferAccepted   = "TRANSFER_ACCEPTED"
	AuditTransferReceived   = "TRANSFER_RECEIVED"
	AuditTransferRejected   = "TRANSFER_REJECTED"
	AuditTransferCancelled  = "TRANSFER_CANCELLED"
	AuditAssignmentCreated  = "ASSIGNMENT_CREATED"
	AuditAssignmentAdvanced = "ASSIGNMENT_ADVANCED"
	AuditApprovalResponded  = "APPROVAL_RESPONDED"
)

// AuditEntry es un registro append-only de la bitácora: cada transición de estado
// y cada uso del bypass de scope escribe exactamente uno. Las filas nunca se
// actualizan.
type AuditEntry struct {
	ID         string
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	Detail     string
	Timestamp  time.Time
}
