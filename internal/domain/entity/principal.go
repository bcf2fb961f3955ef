package entity

// Role enumera los roles del sistema. El conjunto es fijo; qué roles son globales
// o administrativos se configura explícitamente en la política de scope, nunca
// desde estado ambiente del proceso.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleManagement    Role = "MANAGEMENT"
	RoleAdminAffairs  Role = "ADMIN_AFFAIRS"
	RoleCSSupervisor  Role = "CS_SUPERVISOR"
	RoleCenterManager Role = "CENTER_MANAGER"
	RoleCSAgent       Role = "CS_AGENT"
	RoleTechnician    Role = "TECHNICIAN"
	RoleCashier       Role = "CASHIER"
)

// Principal es el contexto del caller, suministrado por la capa de autenticación
// externa en cada petición. El core nunca lo persiste.
type Principal struct {
	UserID   string
	Role     Role
	BranchID string // vacío para cuentas administrativas sin sucursal propia
}

// HasBranch indica si el principal tiene una sucursal propia resoluble.
func (p Principal) HasBranch() bool {
	return p.BranchID != ""
}
