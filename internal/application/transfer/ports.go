package transfer

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los
// puertos atados a esa tx. Garantiza atomicidad para el orquestador de traslados:
// una transición parcialmente aplicada nunca es observable.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledger repository.AssetLedger,
		orders repository.TransferOrderRepository,
		audit repository.AuditTrail,
	) error) error
}
