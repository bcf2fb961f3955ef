package memory

import (
	"context"
	"sort"
	"time"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ repository.TransferOrderRepository = (*TransferOrderRepository)(nil)

// TransferOrderRepository implementación en memoria del puerto de órdenes de traslado.
type TransferOrderRepository struct {
	s *Store
}

// NewTransferOrderRepository construye el repositorio sobre el almacenamiento compartido.
func NewTransferOrderRepository(s *Store) *TransferOrderRepository {
	return &TransferOrderRepository{s: s}
}

func (r *TransferOrderRepository) Create(_ context.Context, order *entity.TransferOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *TransferOrderRepository) GetByID(_ context.Context, id string) (*entity.TransferOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *TransferOrderRepository) ListByBranch(_ context.Context, branchID string, limit, offset int) ([]*entity.TransferOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entity.TransferOrder
	for id := range r.s.orders {
		o := copyOrder(r.s.orders[id])
		if o.FromBranchID == branchID || o.ToBranchID == branchID {
			matched = append(matched, &o)
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

func (r *TransferOrderRepository) UpdateStatus(_ context.Context, id string, from []entity.TransferStatus, to entity.TransferStatus, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrConflict
	}
	allowed := false
	for _, s := range from {
		if o.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return domain.ErrConflict
	}
	o.Status = to
	if reason != "" {
		o.Reason = reason
	}
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return nil
}
