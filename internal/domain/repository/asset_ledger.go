package repository

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
)

// AssetLedger es el registro autoritativo de la sucursal, el estado y el enlace
// de traslado/asignación de cada activo físico. Status y BranchID se mutan
// ÚNICAMENTE a través de estas funciones de transición; el puerto no expone
// ningún update genérico de campos.
//
// Cada transición es un update condicional: el WHERE codifica el estado previo
// esperado y cero filas afectadas significa carrera perdida o precondición rota,
// reportada como domain.ErrConflict. Dentro de una transacción esto garantiza
// que a lo sumo una transición gana.
type AssetLedger interface {
	Create(ctx context.Context, asset *entity.Asset) error
	GetBySerial(ctx context.Context, serial string) (*entity.Asset, error)
	ListBySerials(ctx context.Context, serials []string) ([]*entity.Asset, error)
	List(ctx context.Context, filter scope.CollectionFilter, limit, offset int) ([]*entity.Asset, error)

	// BeginTransfer congela el activo para la orden: status -> IN_TRANSIT,
	// active_transfer_id -> orderID. Única vía por la que se fija IN_TRANSIT.
	// Falla con ErrConflict si el activo está congelado o en estado bloqueado.
	BeginTransfer(ctx context.Context, serial, orderID string) error

	// CompleteTransfer mueve el activo a la sucursal destino, restaura su estado
	// nominal previo y lo descongela. Exige active_transfer_id = orderID.
	CompleteTransfer(ctx context.Context, serial, orderID, toBranchID string, restored entity.AssetStatus) error

	// ReleaseTransfer restaura estado previo y descongela sin mover de sucursal
	// (rechazo o cancelación: el activo nunca salió de su origen).
	ReleaseTransfer(ctx context.Context, serial, orderID string, restored entity.AssetStatus) error

	// BeginAssignment congela el activo para servicio: status -> UNDER_MAINTENANCE,
	// branch_id -> centro, active_assignment_id -> assignmentID.
	BeginAssignment(ctx context.Context, serial, assignmentID, centerBranchID string) error

	// CompleteAssignment retorna el activo a su sucursal de origen con su estado
	// nominal restaurado. Exige active_assignment_id = assignmentID.
	CompleteAssignment(ctx context.Context, serial, assignmentID, originBranchID string, restored entity.AssetStatus) error
}
