package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	domscope "github.com/maquipos/maquipos-api/internal/domain/scope"
	"github.com/maquipos/maquipos-api/pkg/logger"
)

// Scoper intercepta los filtros de lecturas de colección y los confina a la
// sucursal del caller según la política. El marcador de bypass se retira SIEMPRE
// antes de que el filtro llegue al almacenamiento, y cada uso honrado del bypass
// deja exactamente un registro en la bitácora.
type Scoper struct {
	policy *domscope.Policy
	audit  repository.AuditTrail
	log    *logger.Logger
}

// NewScoper construye el scoper.
func NewScoper(policy *domscope.Policy, audit repository.AuditTrail, log *logger.Logger) *Scoper {
	return &Scoper{policy: policy, audit: audit, log: log}
}

// ScopeCollection devuelve el filtro efectivo para una lectura de colección.
// operation nombra la operación (ej. "assets.list") para la bitácora.
//
// Un bypass pedido por un rol sin derecho, igual que un confinamiento sin
// sucursal a la cual confinar, es una violación de contrato de programación
// (ConfigurationError), no un error de usuario.
func (s *Scoper) ScopeCollection(ctx context.Context, operation string, f domscope.CollectionFilter, p entity.Principal) (domscope.CollectionFilter, error) {
	bypass := f.BypassRequested()
	f = f.WithoutBypass() // el marcador jamás llega a la capa de almacenamiento

	if bypass {
		switch {
		case s.policy.IsGlobal(p.Role):
			// Rol global: el bypass es redundante pero válido; se audita igual.
		case s.policy.IsBranchAdmin(p.Role) && !p.HasBranch():
			// Excepción estrecha y deliberada: cuenta administrativa sin sucursal
			// propia resoluble; el scoping sería vacuo. Resultado: sin filtro.
		default:
			return f, &domain.ConfigurationError{
				Reason: fmt.Sprintf("bypass de scope pedido por rol %s con sucursal %q en %s", p.Role, p.BranchID, operation),
			}
		}
		if err := s.recordBypass(ctx, operation, p); err != nil {
			return f, err
		}
		return f, nil
	}

	switch s.policy.Decide(domscope.OpCollectionRead, p) {
	case domscope.ModeNoFilter:
		return f, nil
	default:
		// Sin sucursal resoluble no hay a qué confinar: WithBranch("") dejaría
		// la lectura sin filtro, que es exactamente lo que el confinamiento
		// prohíbe. Se falla como contrato de programación roto.
		if !p.HasBranch() {
			return f, &domain.ConfigurationError{
				Reason: fmt.Sprintf("lectura de colección %s con rol %s sin sucursal resoluble", operation, p.Role),
			}
		}
		// Confinamiento: se fija la sucursal del principal incluso si el filtro
		// traía otra explícita.
		return f.WithBranch(p.BranchID), nil
	}
}

func (s *Scoper) recordBypass(ctx context.Context, operation string, p entity.Principal) error {
	s.log.Warn().
		Str("actor", p.UserID).
		Str("role", string(p.Role)).
		Str("operation", operation).
		Msg("bypass de scope usado")
	entry := &entity.AuditEntry{
		ID:         uuid.New().String(),
		Actor:      p.UserID,
		Action:     entity.AuditScopeBypass,
		EntityType: "query",
		EntityID:   operation,
		Detail:     fmt.Sprintf("rol=%s sucursal=%s", p.Role, p.BranchID),
		Timestamp:  time.Now(),
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		return fmt.Errorf("registrar bypass en bitácora: %w", err)
	}
	return nil
}
