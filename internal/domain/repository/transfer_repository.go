package repository

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// TransferOrderRepository define el puerto de persistencia para TransferOrder.
// Las órdenes nunca se borran; las transiciones de estado son updates
// condicionales (cero filas afectadas => domain.ErrConflict).
type TransferOrderRepository interface {
	Create(ctx context.Context, order *entity.TransferOrder) error
	GetByID(ctx context.Context, id string) (*entity.TransferOrder, error)
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.TransferOrder, error)

	// UpdateStatus transiciona la orden solo si su estado actual está en `from`.
	// reason se registra únicamente para rechazos.
	UpdateStatus(ctx context.Context, id string, from []entity.TransferStatus, to entity.TransferStatus, reason string) error
}
