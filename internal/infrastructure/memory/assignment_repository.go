package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ repository.AssignmentRepository = (*AssignmentRepository)(nil)
var _ repository.ApprovalRepository = (*ApprovalRepository)(nil)

// AssignmentRepository implementación en memoria del puerto de asignaciones de servicio.
type AssignmentRepository struct {
	s *Store
}

// NewAssignmentRepository construye el repositorio sobre el almacenamiento compartido.
func NewAssignmentRepository(s *Store) *AssignmentRepository {
	return &AssignmentRepository{s: s}
}

func (r *AssignmentRepository) Create(_ context.Context, a *entity.ServiceAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assignments[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.assignments[a.ID] = *a
	return nil
}

func (r *AssignmentRepository) GetByID(_ context.Context, id string) (*entity.ServiceAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assignments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AssignmentRepository) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.ServiceAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entity.ServiceAssignment
	for id := range r.s.assignments {
		a := r.s.assignments[id]
		if a.OriginBranchID == branchID || a.CenterBranchID == branchID {
			matched = append(matched, &a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *AssignmentRepository) UpdateStatus(_ context.Context, id string, from []entity.AssignmentStatus, to entity.AssignmentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assignments[id]
	if !ok {
		return domain.ErrConflict
	}
	allowed := false
	for _, s := range from {
		if a.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.ErrConflict
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	r.s.assignments[id] = a
	return nil
}

func (r *AssignmentRepository) SetDiagnosis(_ context.Context, id string, to entity.AssignmentStatus, cost decimal.Decimal, approvalID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assignments[id]
	if !ok || a.Status != entity.AssignmentStatusUnderInspection {
		return domain.ErrConflict
	}
	a.Status = to
	a.EstimatedCost = &cost
	a.ApprovalRequestID = approvalID
	a.UpdatedAt = time.Now()
	r.s.assignments[id] = a
	return nil
}

// ApprovalRepository implementación en memoria del puerto de solicitudes de aprobación.
type ApprovalRepository struct {
	s *Store
}

// NewApprovalRepository construye el repositorio sobre el almacenamiento compartido.
func NewApprovalRepository(s *Store) *ApprovalRepository {
	return &ApprovalRepository{s: s}
}

func (r *ApprovalRepository) Create(_ context.Context, req *entity.ServiceApprovalRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.approvals[req.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.approvals[req.ID] = *req
	return nil
}

func (r *ApprovalRepository) GetByID(_ context.Context, id string) (*entity.ServiceApprovalRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.approvals[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *ApprovalRepository) Respond(_ context.Context, id string, status entity.ApprovalStatus, respondedBy string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.approvals[id]
	if !ok || req.Status != entity.ApprovalStatusPending {
		return domain.ErrConflict
	}
	now := time.Now()
	req.Status = status
	req.RespondedBy = &respondedBy
	req.RespondedAt = &now
	r.s.approvals[id] = req
	return nil
}
