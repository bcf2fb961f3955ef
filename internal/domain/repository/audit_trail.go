package repository

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// AuditTrail es el sink append-only de la bitácora. Las filas jamás se
// actualizan ni se borran.
type AuditTrail interface {
	Record(ctx context.Context, entry *entity.AuditEntry) error
}
