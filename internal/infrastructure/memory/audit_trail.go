package memory

import (
	"context"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
)

var _ repository.AuditTrail = (*AuditTrail)(nil)

// AuditTrail implementación en memoria de la bitácora append-only.
type AuditTrail struct {
	s *Store
}

// NewAuditTrail construye la bitácora sobre el almacenamiento compartido.
func NewAuditTrail(s *Store) *AuditTrail {
	return &AuditTrail{s: s}
}

func (r *AuditTrail) Record(_ context.Context, entry *entity.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

// Entries devuelve una copia de la bitácora, en orden de inserción. Solo para
// verificación en pruebas.
func (r *AuditTrail) Entries() []entity.AuditEntry {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]entity.AuditEntry(nil), r.s.audit...)
}
