package assignment

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los puertos
// del flujo de servicio atados a esa tx.
type TxRunner interface {
	RunAssignment(ctx context.Context, fn func(
		ledger repository.AssetLedger,
		assignments repository.AssignmentRepository,
		approvals repository.ApprovalRepository,
		audit repository.AuditTrail,
	) error) error
}
