package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepo)(nil)
var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

const assignmentColumns = `id, serial_number, origin_branch_id, center_branch_id, status, prev_status, estimated_cost, approval_request_id, created_by, created_at, updated_at`

// AssignmentRepo implementación del puerto AssignmentRepository sobre
// PostgreSQL (usable con pool o tx).
type AssignmentRepo struct {
	q Querier
}

// NewAssignmentRepository construye el adaptador de asignaciones de servicio.
func NewAssignmentRepository(q Querier) *AssignmentRepo {
	return &AssignmentRepo{q: q}
}

// Create persiste una nueva asignación.
func (r *AssignmentRepo) Create(ctx context.Context, a *entity.ServiceAssignment) error {
	query := `
		INSERT INTO service_assignments (id, serial_number, origin_branch_id, center_branch_id, status, prev_status, estimated_cost, approval_request_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.SerialNumber, a.OriginBranchID, a.CenterBranchID, string(a.Status),
		string(a.PrevStatus), a.EstimatedCost, a.ApprovalRequestID, a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID. Devuelve nil si no existe.
func (r *AssignmentRepo) GetByID(ctx context.Context, id string) (*entity.ServiceAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM service_assignments WHERE id = $1`
	a, err := scanAssignment(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// ListByBranch obtiene asignaciones donde la sucursal figura como origen o centro,
// más recientes primero.
func (r *AssignmentRepo) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*entity.ServiceAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM service_assignments
		WHERE origin_branch_id = $1 OR center_branch_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, branchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []*entity.ServiceAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

// UpdateStatus transiciona la asignación solo si su estado actual está en `from`.
func (r *AssignmentRepo) UpdateStatus(ctx context.Context, id string, from []entity.AssignmentStatus, to entity.AssignmentStatus) error {
	expected := make([]string, 0, len(from))
	for _, s := range from {
		expected = append(expected, string(s))
	}
	query := `
		UPDATE service_assignments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = ANY($4)`
	tag, err := r.q.Exec(ctx, query, string(to), time.Now(), id, expected)
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// SetDiagnosis registra el costo y transiciona desde UNDER_INSPECTION.
func (r *AssignmentRepo) SetDiagnosis(ctx context.Context, id string, to entity.AssignmentStatus, cost decimal.Decimal, approvalID *string) error {
	query := `
		UPDATE service_assignments
		SET status = $1, estimated_cost = $2, approval_request_id = $3, updated_at = $4
		WHERE id = $5 AND status = $6`
	tag, err := r.q.Exec(ctx, query,
		string(to), cost, approvalID, time.Now(), id, string(entity.AssignmentStatusUnderInspection),
	)
	if err != nil {
		return fmt.Errorf("set assignment diagnosis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanAssignment(row pgx.Row) (*entity.ServiceAssignment, error) {
	var a entity.ServiceAssignment
	var status, prev string
	err := row.Scan(
		&a.ID, &a.SerialNumber, &a.OriginBranchID, &a.CenterBranchID, &status, &prev,
		&a.EstimatedCost, &a.ApprovalRequestID, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = entity.AssignmentStatus(status)
	a.PrevStatus = entity.AssetStatus(prev)
	return &a, nil
}

// ApprovalRepo implementación del puerto ApprovalRepository sobre PostgreSQL.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador de solicitudes de aprobación.
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

// Create persiste una nueva solicitud de aprobación de costo.
func (r *ApprovalRepo) Create(ctx context.Context, req *entity.ServiceApprovalRequest) error {
	query := `
		INSERT INTO service_approval_requests (id, assignment_id, requested_cost, status, responded_by, responded_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.AssignmentID, req.RequestedCost, string(req.Status),
		req.RespondedBy, req.RespondedAt, req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert approval request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID. Devuelve nil si no existe.
func (r *ApprovalRepo) GetByID(ctx context.Context, id string) (*entity.ServiceApprovalRequest, error) {
	query := `
		SELECT id, assignment_id, requested_cost, status, responded_by, responded_at, created_at
		FROM service_approval_requests WHERE id = $1`
	var req entity.ServiceApprovalRequest
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.AssignmentID, &req.RequestedCost, &status,
		&req.RespondedBy, &req.RespondedAt, &req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval request: %w", err)
	}
	req.Status = entity.ApprovalStatus(status)
	return &req, nil
}

// Respond marca la solicitud solo si sigue PENDING.
func (r *ApprovalRepo) Respond(ctx context.Context, id string, status entity.ApprovalStatus, respondedBy string) error {
	query := `
		UPDATE service_approval_requests
		SET status = $1, responded_by = $2, responded_at = $3
		WHERE id = $4 AND status = $5`
	tag, err := r.q.Exec(ctx, query,
		string(status), respondedBy, time.Now(), id, string(entity.ApprovalStatusPending),
	)
	if err != nil {
		return fmt.Errorf("respond approval request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
