package postgres

import (
	"context"
	"fmt"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ repository.AuditTrail = (*AuditRepo)(nil)

// AuditRepo implementación append-only del puerto AuditTrail sobre PostgreSQL.
// No expone lecturas de mutación: las filas solo se insertan.
type AuditRepo struct {
	q Querier
}

// NewAuditTrail construye el adaptador de bitácora.
func NewAuditTrail(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Record inserta una entrada en la bitácora.
func (r *AuditRepo) Record(ctx context.Context, entry *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, actor, action, entity_type, entity_id, detail, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.Actor, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
