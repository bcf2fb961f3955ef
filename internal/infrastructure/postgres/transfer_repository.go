package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ repository.TransferOrderRepository = (*TransferOrderRepo)(nil)

const transferColumns = `id, from_branch_id, to_branch_id, type, status, reason, created_by, created_at, updated_at`

// TransferOrderRepo implementación del puerto TransferOrderRepository sobre
// PostgreSQL (usable con pool o tx). Las órdenes nunca se borran.
type TransferOrderRepo struct {
	q Querier
}

// NewTransferOrderRepository construye el adaptador de órdenes de traslado.
func NewTransferOrderRepository(q Querier) *TransferOrderRepo {
	return &TransferOrderRepo{q: q}
}

// Create persiste la orden y sus renglones. Debe llamarse dentro de una tx para
// que orden y renglones aparezcan juntos o no aparezcan.
func (r *TransferOrderRepo) Create(ctx context.Context, order *entity.TransferOrder) error {
	query := `
		INSERT INTO transfer_orders (id, from_branch_id, to_branch_id, type, status, reason, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.FromBranchID, order.ToBranchID, order.Type, string(order.Status),
		order.Reason, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer order: %w", err)
	}
	for _, item := range order.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO transfer_order_items (order_id, serial_number, prev_status) VALUES ($1, $2, $3)`,
			order.ID, item.SerialNumber, string(item.PrevStatus),
		)
		if err != nil {
			return fmt.Errorf("insert transfer order item %s: %w", item.SerialNumber, err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus renglones. Devuelve nil si no existe.
func (r *TransferOrderRepo) GetByID(ctx context.Context, id string) (*entity.TransferOrder, error) {
	query := `SELECT ` + transferColumns + ` FROM transfer_orders WHERE id = $1`
	o, err := scanTransferOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer order: %w", err)
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByBranch obtiene las órdenes donde la sucursal figura como origen o destino,
// más recientes primero.
func (r *TransferOrderRepo) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.TransferOrder, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfer_orders
		WHERE from_branch_id = $1 OR to_branch_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfer orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.TransferOrder
	for rows.Next() {
		o, err := scanTransferOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer orders: %w", err)
	}
	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus transiciona la orden solo si su estado actual está en `from`.
// Cero filas afectadas => ErrConflict (carrera perdida o precondición rota).
func (r *TransferOrderRepo) UpdateStatus(ctx context.Context, id string, from []entity.TransferStatus, to entity.TransferStatus, reason string) error {
	expected := make([]string, 0, len(from))
	for _, s := range from {
		expected = append(expected, string(s))
	}
	query := `
		UPDATE transfer_orders
		SET status = $1, reason = CASE WHEN $2 <> '' THEN $2 ELSE reason END, updated_at = $3
		WHERE id = $4 AND status = ANY($5)`
	tag, err := r.q.Exec(ctx, query, string(to), reason, time.Now(), id, expected)
	if err != nil {
		return fmt.Errorf("update transfer order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *TransferOrderRepo) loadItems(ctx context.Context, o *entity.TransferOrder) error {
	rows, err := r.q.Query(ctx,
		`SELECT serial_number, prev_status FROM transfer_order_items WHERE order_id = $1 ORDER BY serial_number`,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("list transfer order items: %w", err)
	}
	defer rows.Close()

	o.Items = o.Items[:0]
	for rows.Next() {
		var item entity.TransferItem
		var prev string
		if err := rows.Scan(&item.SerialNumber, &prev); err != nil {
			return fmt.Errorf("scan transfer order item: %w", err)
		}
		item.PrevStatus = entity.AssetStatus(prev)
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate transfer order items: %w", err)
	}
	return nil
}

func scanTransferOrder(row pgx.Row) (*entity.TransferOrder, error) {
	var o entity.TransferOrder
	var status string
	err := row.Scan(
		&o.ID, &o.FromBranchID, &o.ToBranchID, &o.Type, &status,
		&o.Reason, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = entity.TransferStatus(status)
	return &o, nil
}
