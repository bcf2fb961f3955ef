package repository

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (seed y administración).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
