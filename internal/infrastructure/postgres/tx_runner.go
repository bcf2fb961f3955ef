package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maquipos/maquipos-api/internal/application/assignment"
	"github.com/maquipos/maquipos-api/internal/application/transfer"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

// Verificación en compilación de que TxRunner implementa ambos puertos.
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ assignment.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con los
// repositorios atados a la tx. La frontera de la transacción es la unidad de
// aislamiento: una transición aplicada a medias nunca es observable.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción para el flujo de traslados, ejecuta fn con los
// puertos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ledger repository.AssetLedger,
	orders repository.TransferOrderRepository,
	audit repository.AuditTrail,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ledger := NewAssetLedger(tx)
	orders := NewTransferOrderRepository(tx)
	audit := NewAuditTrail(tx)

	if err := fn(ledger, orders, audit); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAssignment inicia una transacción para el flujo de servicio al centro.
func (r *TxRunner) RunAssignment(ctx context.Context, fn func(
	ledger repository.AssetLedger,
	assignments repository.AssignmentRepository,
	approvals repository.ApprovalRepository,
	audit repository.AuditTrail,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ledger := NewAssetLedger(tx)
	assignments := NewAssignmentRepository(tx)
	approvals := NewApprovalRepository(tx)
	audit := NewAuditTrail(tx)

	if err := fn(ledger, assignments, approvals, audit); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
