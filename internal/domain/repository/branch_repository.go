package repository

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// BranchRepository define el puerto de persistencia para Branch (DIP).
// Las sucursales se crean/editan desde herramientas administrativas externas;
// el core solo las lee para validar y autorizar.
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	GetByCode(ctx context.Context, code string) (*entity.Branch, error)
	List(ctx context.Context) ([]*entity.Branch, error)
}
