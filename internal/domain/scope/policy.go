package scope

import "github.com/maquipos/maquipos-api/internal/domain/entity"

// OperationKind clasifica la operación de acceso a datos.
type OperationKind int

const (
	// OpCollectionRead es una lectura de colección (listados).
	OpCollectionRead OperationKind = iota
	// OpUniqueRead es una lectura por clave única (serial, id).
	OpUniqueRead
	// OpUniqueWrite es una escritura sobre una entidad resuelta por clave única.
	OpUniqueWrite
)

func (k OperationKind) String() string {
	switch k {
	case OpCollectionRead:
		return "COLLECTION_READ"
	case OpUniqueRead:
		return "UNIQUE_READ"
	case OpUniqueWrite:
		return "UNIQUE_WRITE"
	}
	return "UNKNOWN"
}

// Mode es la decisión de filtrado para una operación.
type Mode int

const (
	// ModeAutoFilter: inyectar branch_id = principal.BranchID.
	ModeAutoFilter Mode = iota
	// ModeNoFilter: sin filtro de sucursal (rol global).
	ModeNoFilter
	// ModeForbidImplicitFilter: nunca adjuntar predicado de sucursal; la
	// autorización se verifica DESPUÉS del fetch contra la entidad obtenida.
	ModeForbidImplicitFilter
)

// Config enumera explícitamente qué roles son globales y cuáles son
// administrativos ligados a sucursal. Se pasa en la construcción de la política;
// la política jamás lee estado ambiente del proceso.
type Config struct {
	GlobalRoles      []entity.Role
	BranchAdminRoles []entity.Role
}

// DefaultConfig devuelve la configuración de roles del sistema.
func DefaultConfig() Config {
	return Config{
		GlobalRoles:      []entity.Role{entity.RoleSuperAdmin, entity.RoleManagement},
		BranchAdminRoles: []entity.Role{entity.RoleAdminAffairs, entity.RoleCSSupervisor, entity.RoleCenterManager},
	}
}

// Policy decide, de forma pura, si el filtrado por sucursal aplica, se omite o
// está prohibido de forma implícita para una operación y un principal dado.
type Policy struct {
	global      map[entity.Role]bool
	branchAdmin map[entity.Role]bool
}

// NewPolicy construye la política desde la configuración enumerada.
func NewPolicy(cfg Config) *Policy {
	p := &Policy{
		global:      make(map[entity.Role]bool, len(cfg.GlobalRoles)),
		branchAdmin: make(map[entity.Role]bool, len(cfg.BranchAdminRoles)),
	}
	for _, r := range cfg.GlobalRoles {
		p.global[r] = true
	}
	for _, r := range cfg.BranchAdminRoles {
		p.branchAdmin[r] = true
	}
	return p
}

// IsGlobal indica si el rol ve todas las sucursales.
func (p *Policy) IsGlobal(role entity.Role) bool {
	return p.global[role]
}

// IsBranchAdmin indica si el rol es administrativo pero ligado a sucursal.
func (p *Policy) IsBranchAdmin(role entity.Role) bool {
	return p.branchAdmin[role]
}

// Decide devuelve el modo de filtrado para la operación y el principal.
// Las búsquedas por clave única NUNCA llevan predicado de sucursal: mezclar dos
// semánticas de filtro independientes puede hacer que el lookup por identificador
// falle o devuelva vacío según la capa de almacenamiento. El caller obtiene la
// entidad por su clave y luego autoriza explícitamente contra su BranchID.
func (p *Policy) Decide(op OperationKind, principal entity.Principal) Mode {
	switch op {
	case OpUniqueRead, OpUniqueWrite:
		return ModeForbidImplicitFilter
	default:
		if p.IsGlobal(principal.Role) {
			return ModeNoFilter
		}
		return ModeAutoFilter
	}
}
