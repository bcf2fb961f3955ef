package scope

import (
	"context"
	"fmt"

	"github.com/maquipos/maquipos-api/internal/domain"
	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// branchLookup es el contrato mínimo que necesita el autorizador para resolver
// la jerarquía de sucursales; el uso de interfaz evita acoplar el paquete a los
// puertos de persistencia.
type branchLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
}

// Authorizer es el chequeo post-fetch para operaciones por clave única: el caller
// obtiene la entidad por su identificador y después compara su sucursal contra el
// principal. Una sucursal padre puede acceder a los datos de sus hijas.
type Authorizer struct {
	policy   *Policy
	branches branchLookup
}

// NewAuthorizer construye el chequeo post-fetch.
func NewAuthorizer(policy *Policy, branches branchLookup) *Authorizer {
	return &Authorizer{policy: policy, branches: branches}
}

// CanAccess devuelve nil si el principal puede operar sobre una entidad que
// pertenece a entityBranchID; domain.ErrForbidden en caso contrario.
func (a *Authorizer) CanAccess(ctx context.Context, principal entity.Principal, entityBranchID string) error {
	if a.policy.IsGlobal(principal.Role) {
		return nil
	}
	if principal.HasBranch() && principal.BranchID == entityBranchID {
		return nil
	}
	// Jerarquía: el padre ve los datos de sus hijas.
	if principal.HasBranch() {
		branch, err := a.branches.GetByID(ctx, entityBranchID)
		if err != nil {
			return fmt.Errorf("resolver sucursal %s: %w", entityBranchID, err)
		}
		if branch != nil && branch.ParentID != nil && *branch.ParentID == principal.BranchID {
			return nil
		}
	}
	return domain.ErrForbidden
}
