package memory

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/application/assignment"
	"github.com/maquipos/maquipos-api/internal/application/transfer"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ transfer.TxRunner = (*TxRunner)(nil)
var _ assignment.TxRunner = (*TxRunner)(nil)

// TxRunner emula la transacción del adaptador PostgreSQL con snapshot/restore:
// si fn falla, el almacenamiento vuelve byte a byte al estado previo, de modo
// que las pruebas observan la misma atomicidad que en producción.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacenamiento compartido.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con los puertos del flujo de traslados; restaura ante error.
func (r *TxRunner) Run(_ context.Context, fn func(
	ledger repository.AssetLedger,
	orders repository.TransferOrderRepository,
	audit repository.AuditTrail,
) error) error {
	snap := r.s.take()
	err := fn(NewAssetLedger(r.s), NewTransferOrderRepository(r.s), NewAuditTrail(r.s))
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// RunAssignment ejecuta fn con los puertos del flujo de servicio; restaura ante error.
func (r *TxRunner) RunAssignment(_ context.Context, fn func(
	ledger repository.AssetLedger,
	assignments repository.AssignmentRepository,
	approvals repository.ApprovalRepository,
	audit repository.AuditTrail,
) error) error {
	snap := r.s.take()
	err := fn(NewAssetLedger(r.s), NewAssignmentRepository(r.s), NewApprovalRepository(r.s), NewAuditTrail(r.s))
	if err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
