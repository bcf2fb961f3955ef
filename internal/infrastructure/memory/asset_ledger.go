package memory

import (
	"context"
	"sort"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
)

var _ repository.AssetLedger = (*AssetLedger)(nil)

// AssetLedger implementación en memoria del ledger de activos. Replica la
// semántica condicional del adaptador PostgreSQL: precondición rota => ErrConflict.
type AssetLedger struct {
	s *Store
}

// NewAssetLedger construye el ledger sobre el almacenamiento compartido.
func NewAssetLedger(s *Store) *AssetLedger {
	return &AssetLedger{s: s}
}

func (r *AssetLedger) Create(_ context.Context, asset *entity.Asset) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assets[asset.SerialNumber]; ok {
		return domain.ErrDuplicate
	}
	r.s.assets[asset.SerialNumber] = *asset
	return nil
}

func (r *AssetLedger) GetBySerial(_ context.Context, serial string) (*entity.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[serial]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AssetLedger) ListBySerials(_ context.Context, serials []string) ([]*entity.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Asset
	for _, serial := range serials {
		if a, ok := r.s.assets[serial]; ok {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *AssetLedger) List(_ context.Context, filter scope.CollectionFilter, limit, offset int) ([]*entity.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entity.Asset
	for serial := range r.s.assets {
		a := r.s.assets[serial]
		if filter.Matches(&a) {
			matched = append(matched, &a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].SerialNumber < matched[j].SerialNumber
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

func (r *AssetLedger) BeginTransfer(_ context.Context, serial, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[serial]
	if !ok || a.IsFrozen() || a.Status.IsLocked() {
		return domain.ErrConflict
	}
	a.Status = entity.AssetStatusInTransit
	a.ActiveTransferID = &orderID
	r.s.assets[serial] = a
	return nil
}

func (r *AssetLedger) CompleteTransfer(_ context.Context, serial, orderID, toBranchID string, restored entity.AssetStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[serial]
	if !ok || a.ActiveTransferID == nil || *a.ActiveTransferID != orderID {
		return domain.ErrConflict
	}
	a.Status = restored
	a.BranchID = toBranchID
	a.ActiveTransferID = nil
	r.s.assets[serial] = a
	return nil
}

func (r *AssetLedger) ReleaseTransfer(_ context.Context, serial, orderID string, restored entity.AssetStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[serial]
	if !ok || a.ActiveTransferID == nil || *a.ActiveTransferID != orderID {
		return domain.ErrConflict
	}
	a.Status = restored
	a.ActiveTransferID = nil
	r.s.assets[serial] = a
	return nil
}

func (r *AssetLedger) BeginAssignment(_ context.Context, serial, assignmentID, centerBranchID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[serial]
	if !ok || a.IsFrozen() || a.Status.IsLocked() {
		return domain.ErrConflict
	}
	a.Status = entity.AssetStatusUnderMaintenance
	a.BranchID = centerBranchID
	a.ActiveAssignmentID = &assignmentID
	r.s.assets[serial] = a
	return nil
}

func (r *AssetLedger) CompleteAssignment(_ context.Context, serial, assignmentID, originBranchID string, restored entity.AssetStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assets[serial]
	if !ok || a.ActiveAssignmentID == nil || *a.ActiveAssignmentID != assignmentID {
		return domain.ErrConflict
	}
	a.Status = restored
	a.BranchID = originBranchID
	a.ActiveAssignmentID = nil
	r.s.assets[serial] = a
	return nil
}
