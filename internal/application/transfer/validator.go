package transfer

import (
	"context"
	"fmt"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
	"github.com/maquipos/maquipos-api/internal/domain/repository"
	"github.com/maquipos/maquipos-api/internal/domain/scope"
)

// CreateInput es la propuesta de traslado a validar/crear.
type CreateInput struct {
	FromBranchID string
	ToBranchID   string
	Type         string
	Serials      []string
}

// Result es el veredicto del validador: todas las violaciones, nunca solo la primera.
type Result struct {
	Valid  bool
	Errors []string
}

// Validator es el chequeo pre-vuelo de un traslado propuesto. Es consultivo:
// no muta nada, y el orquestador re-verifica los hechos clave dentro de su
// propia transacción para cerrar la carrera entre validación y commit.
type Validator struct {
	branches repository.BranchRepository
	ledger   repository.AssetLedger
	policy   *scope.Policy
}

// NewValidator construye el validador.
func NewValidator(branches repository.BranchRepository, ledger repository.AssetLedger, policy *scope.Policy) *Validator {
	return &Validator{branches: branches, ledger: ledger, policy: policy}
}

// Validate recoge TODAS las violaciones de la propuesta sin cortocircuito.
// Un error de infraestructura (fallo de repositorio) se devuelve aparte.
func (v *Validator) Validate(ctx context.Context, in CreateInput, p entity.Principal) (Result, error) {
	var errs []string

	// Un traslado hacia sí mismo es un no-op y se rechaza.
	if in.FromBranchID == in.ToBranchID {
		errs = append(errs, "la sucursal de origen y destino no pueden ser la misma")
	}

	if in.Type != entity.TransferTypeMachine && in.Type != entity.TransferTypeSparePart {
		errs = append(errs, fmt.Sprintf("tipo de traslado desconocido: %q", in.Type))
	}

	// Ambas sucursales existen y están activas.
	from, err := v.branches.GetByID(ctx, in.FromBranchID)
	if err != nil {
		return Result{}, err
	}
	if from == nil {
		errs = append(errs, fmt.Sprintf("la sucursal de origen %s no existe", in.FromBranchID))
	} else if !from.IsActive() {
		errs = append(errs, fmt.Sprintf("la sucursal de origen %s no está activa", from.Code))
	}
	if in.ToBranchID != in.FromBranchID {
		to, err := v.branches.GetByID(ctx, in.ToBranchID)
		if err != nil {
			return Result{}, err
		}
		if to == nil {
			errs = append(errs, fmt.Sprintf("la sucursal de destino %s no existe", in.ToBranchID))
		} else if !to.IsActive() {
			errs = append(errs, fmt.Sprintf("la sucursal de destino %s no está activa", to.Code))
		}
	}

	// El principal puede originar desde FromBranchID.
	if !v.policy.IsGlobal(p.Role) && !v.policy.IsBranchAdmin(p.Role) && p.BranchID != in.FromBranchID {
		errs = append(errs, fmt.Sprintf("el principal no está autorizado a originar traslados desde %s", in.FromBranchID))
	}

	// Sin seriales duplicados dentro de la misma orden.
	if len(in.Serials) == 0 {
		errs = append(errs, "la orden no tiene renglones")
	}
	seen := make(map[string]bool, len(in.Serials))
	for _, serial := range in.Serials {
		if seen[serial] {
			errs = append(errs, fmt.Sprintf("serial duplicado en la orden: %s", serial))
		}
		seen[serial] = true
	}

	// Cada renglón resuelve a un activo existente, no bloqueado y no congelado.
	assets, err := v.ledger.ListBySerials(ctx, in.Serials)
	if err != nil {
		return Result{}, err
	}
	bySerial := make(map[string]*entity.Asset, len(assets))
	for _, a := range assets {
		bySerial[a.SerialNumber] = a
	}
	for serial := range seen {
		a, ok := bySerial[serial]
		if !ok {
			errs = append(errs, fmt.Sprintf("el activo %s no existe", serial))
			continue
		}
		if a.BranchID != in.FromBranchID {
			errs = append(errs, fmt.Sprintf("el activo %s no pertenece a la sucursal de origen", serial))
		}
		if a.Status.IsLocked() {
			errs = append(errs, fmt.Sprintf("el activo %s está en estado %s y no puede trasladarse", serial, a.Status))
		}
		if a.ActiveTransferID != nil {
			errs = append(errs, fmt.Sprintf("el activo %s está congelado por otro traslado pendiente", serial))
		}
		if a.ActiveAssignmentID != nil {
			errs = append(errs, fmt.Sprintf("el activo %s está congelado por una asignación de servicio", serial))
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}, nil
}
