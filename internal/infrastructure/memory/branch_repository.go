package memory

import (
	"context"
	"sort"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepository)(nil)

// BranchRepository implementación en memoria del puerto de sucursales.
type BranchRepository struct {
	s *Store
}

// NewBranchRepository construye el repositorio sobre el almacenamiento compartido.
func NewBranchRepository(s *Store) *BranchRepository {
	return &BranchRepository{s: s}
}

func (r *BranchRepository) Create(_ context.Context, b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.branches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.branches {
		if existing.Code == b.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.branches[b.ID] = *b
	return nil
}

func (r *BranchRepository) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.branches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BranchRepository) GetByCode(_ context.Context, code string) (*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.branches {
		if r.s.branches[id].Code == code {
			b := r.s.branches[id]
			return &b, nil
		}
	}
	return nil, nil
}

func (r *BranchRepository) List(_ context.Context) ([]*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Branch
	for id := range r.s.branches {
		b := r.s.branches[id]
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
