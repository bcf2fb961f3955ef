package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
)

var _ repository.AssetLedger = (*AssetLedgerRepo)(nil)

const assetColumns = `id, serial_number, model, status, branch_id, active_transfer_id, active_assignment_id, created_at, updated_at`

// AssetLedgerRepo implementación del puerto AssetLedger sobre PostgreSQL
// (usable con pool o tx). Las transiciones son updates condicionales: el WHERE
// codifica la precondición y cero filas afectadas se reporta como ErrConflict.
type AssetLedgerRepo struct {
	q Querier
}

// NewAssetLedger construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewAssetLedger(q Querier) *AssetLedgerRepo {
	return &AssetLedgerRepo{q: q}
}

// Create persiste un nuevo activo.
func (r *AssetLedgerRepo) Create(ctx context.Context, asset *entity.Asset) error {
	query := `
		INSERT INTO assets (id, serial_number, model, status, branch_id, active_transfer_id, active_assignment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		asset.ID, asset.SerialNumber, asset.Model, string(asset.Status), asset.BranchID,
		asset.ActiveTransferID, asset.ActiveAssignmentID, asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// GetBySerial obtiene un activo por serial. Devuelve nil si no existe.
func (r *AssetLedgerRepo) GetBySerial(ctx context.Context, serial string) (*entity.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE serial_number = $1`
	a, err := scanAsset(r.q.QueryRow(ctx, query, serial))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return a, nil
}

// ListBySerials obtiene los activos cuyos seriales estén en la lista, en
// cualquier orden. Los seriales inexistentes simplemente no aparecen.
func (r *AssetLedgerRepo) ListBySerials(ctx context.Context, serials []string) ([]*entity.Asset, error) {
	if len(serials) == 0 {
		return nil, nil
	}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE serial_number = ANY($1)`
	rows, err := r.q.Query(ctx, query, serials)
	if err != nil {
		return nil, fmt.Errorf("list assets by serial: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// List obtiene activos según el filtro de colección compilado a predicados SQL.
func (r *AssetLedgerRepo) List(ctx context.Context, filter scope.CollectionFilter, limit, offset int) ([]*entity.Asset, error) {
	builder := sq.Select(assetColumns).
		From("assets").
		OrderBy("serial_number").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar)
	if preds := filter.Predicates(); len(preds) > 0 {
		builder = builder.Where(preds)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build asset list query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// BeginTransfer congela el activo para la orden. El WHERE exige activo libre y
// en estado nominal; si otro flujo lo reclamó primero, cero filas => ErrConflict.
func (r *AssetLedgerRepo) BeginTransfer(ctx context.Context, serial, orderID string) error {
	query := `
		UPDATE assets
		SET status = $1, active_transfer_id = $2, updated_at = $3
		WHERE serial_number = $4
		  AND active_transfer_id IS NULL
		  AND active_assignment_id IS NULL
		  AND status NOT IN ($5, $6, $7, $8)`
	tag, err := r.q.Exec(ctx, query,
		string(entity.AssetStatusInTransit), orderID, time.Now(), serial,
		string(entity.AssetStatusInTransit), string(entity.AssetStatusSold),
		string(entity.AssetStatusAssigned), string(entity.AssetStatusUnderMaintenance),
	)
	if err != nil {
		return fmt.Errorf("begin transfer for %s: %w", serial, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// CompleteTransfer mueve el activo a la sucursal destino y lo descongela.
func (r *AssetLedgerRepo) CompleteTransfer(ctx context.Context, serial, orderID, toBranchID string, restored entity.AssetStatus) error {
	query := `
		UPDATE assets
		SET status = $1, branch_id = $2, active_transfer_id = NULL, updated_at = $3
		WHERE serial_number = $4 AND active_transfer_id = $5`
	tag, err := r.q.Exec(ctx, query, string(restored), toBranchID, time.Now(), serial, orderID)
	if err != nil {
		return fmt.Errorf("complete transfer for %s: %w", serial, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ReleaseTransfer restaura el estado previo sin mover de sucursal.
func (r *AssetLedgerRepo) ReleaseTransfer(ctx context.Context, serial, orderID string, restored entity.AssetStatus) error {
	query := `
		UPDATE assets
		SET status = $1, active_transfer_id = NULL, updated_at = $2
		WHERE serial_number = $3 AND active_transfer_id = $4`
	tag, err := r.q.Exec(ctx, query, string(restored), time.Now(), serial, orderID)
	if err != nil {
		return fmt.Errorf("release transfer for %s: %w", serial, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// BeginAssignment congela el activo para servicio y lo mueve al centro.
func (r *AssetLedgerRepo) BeginAssignment(ctx context.Context, serial, assignmentID, centerBranchID string) error {
	query := `
		UPDATE assets
		SET status = $1, branch_id = $2, active_assignment_id = $3, updated_at = $4
		WHERE serial_number = $5
		  AND active_transfer_id IS NULL
		  AND active_assignment_id IS NULL
		  AND status NOT IN ($6, $7, $8, $9)`
	tag, err := r.q.Exec(ctx, query,
		string(entity.AssetStatusUnderMaintenance), centerBranchID, assignmentID, time.Now(), serial,
		string(entity.AssetStatusInTransit), string(entity.AssetStatusSold),
		string(entity.AssetStatusAssigned), string(entity.AssetStatusUnderMaintenance),
	)
	if err != nil {
		return fmt.Errorf("begin assignment for %s: %w", serial, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// CompleteAssignment retorna el activo a su sucursal de origen.
func (r *AssetLedgerRepo) CompleteAssignment(ctx context.Context, serial, assignmentID, originBranchID string, restored entity.AssetStatus) error {
	query := `
		UPDATE assets
		SET status = $1, branch_id = $2, active_assignment_id = NULL, updated_at = $3
		WHERE serial_number = $4 AND active_assignment_id = $5`
	tag, err := r.q.Exec(ctx, query, string(restored), originBranchID, time.Now(), serial, assignmentID)
	if err != nil {
		return fmt.Errorf("complete assignment for %s: %w", serial, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanAsset(row pgx.Row) (*entity.Asset, error) {
	var a entity.Asset
	var status string
	err := row.Scan(
		&a.ID, &a.SerialNumber, &a.Model, &status, &a.BranchID,
		&a.ActiveTransferID, &a.ActiveAssignmentID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AssetStatus(status)
	return &a, nil
}

func collectAssets(rows pgx.Rows) ([]*entity.Asset, error) {
	var assets []*entity.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}
