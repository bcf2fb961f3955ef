package scope

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// CollectionFilter es un valor inmutable que compone predicados de forma
// estructural para lecturas de colección. Los lookups por clave única no aceptan
// filtro alguno (los puertos los reciben por serial/id directamente), así que la
// distinción única-vs-colección queda a nivel de tipos.
//
// El marcador de bypass viaja dentro del filtro pero jamás llega a la capa de
// almacenamiento: Predicates() lo ignora y el scoper lo retira siempre.
type CollectionFilter struct {
	branchID string
	statuses []entity.AssetStatus
	serial   string
	bypass   bool
}

// NewCollectionFilter devuelve un filtro vacío.
func NewCollectionFilter() CollectionFilter {
	return CollectionFilter{}
}

// WithBranch devuelve una copia con el predicado de sucursal fijado.
func (f CollectionFilter) WithBranch(branchID string) CollectionFilter {
	f.branchID = branchID
	return f
}

// WithStatuses devuelve una copia con el predicado de estados fijado.
func (f CollectionFilter) WithStatuses(statuses ...entity.AssetStatus) CollectionFilter {
	f.statuses = append([]entity.AssetStatus(nil), statuses...)
	return f
}

// WithSerial devuelve una copia con el predicado de serial fijado.
func (f CollectionFilter) WithSerial(serial string) CollectionFilter {
	f.serial = serial
	return f
}

// WithBypass devuelve una copia con el marcador explícito de bypass de scope.
func (f CollectionFilter) WithBypass() CollectionFilter {
	f.bypass = true
	return f
}

// WithoutBypass devuelve una copia sin el marcador de bypass.
func (f CollectionFilter) WithoutBypass() CollectionFilter {
	f.bypass = false
	return f
}

// BypassRequested indica si el caller pidió explícitamente omitir el filtrado.
func (f CollectionFilter) BypassRequested() bool { return f.bypass }

// HasBranch indica si el filtro ya fija una sucursal.
func (f CollectionFilter) HasBranch() bool { return f.branchID != "" }

// BranchID devuelve la sucursal fijada, o vacío.
func (f CollectionFilter) BranchID() string { return f.branchID }

// Statuses devuelve los estados fijados (copia).
func (f CollectionFilter) Statuses() []entity.AssetStatus {
	return append([]entity.AssetStatus(nil), f.statuses...)
}

// Serial devuelve el serial fijado, o vacío.
func (f CollectionFilter) Serial() string { return f.serial }

// Predicates compila el filtro a predicados squirrel. El marcador de bypass
// nunca forma parte del SQL generado.
func (f CollectionFilter) Predicates() sq.And {
	var and sq.And
	if f.branchID != "" {
		and = append(and, sq.Eq{"branch_id": f.branchID})
	}
	if len(f.statuses) > 0 {
		statuses := make([]string, 0, len(f.statuses))
		for _, s := range f.statuses {
			statuses = append(statuses, string(s))
		}
		and = append(and, sq.Eq{"status": statuses})
	}
	if f.serial != "" {
		and = append(and, sq.Eq{"serial_number": f.serial})
	}
	return and
}

// Matches evalúa el filtro en memoria contra un activo (misma semántica que
// Predicates, para los adaptadores sin SQL).
func (f CollectionFilter) Matches(a *entity.Asset) bool {
	if f.branchID != "" && a.BranchID != f.branchID {
		return false
	}
	if f.serial != "" && a.SerialNumber != f.serial {
		return false
	}
	if len(f.statuses) > 0 {
		ok := false
		for _, s := range f.statuses {
			if a.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}
