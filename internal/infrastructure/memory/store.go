package memory

import (
	"sync"

	"github.com/maquipos/maquipos-api/internal/domain/entity"
)

// Store es el almacenamiento en memoria compartido por los adaptadores de este
// paquete. Guarda valores (no punteros) y los repositorios copian al leer y al
// escribir, de modo que los callers nunca alias-an el estado interno. Se usa en
// pruebas y herramientas locales; no sustituye a PostgreSQL en producción.
type Store struct {
	mu          sync.Mutex
	branches    map[string]entity.Branch            // por ID
	assets      map[string]entity.Asset             // por serial
	orders      map[string]entity.TransferOrder     // por ID
	assignments map[string]entity.ServiceAssignment // por ID
	approvals   map[string]entity.ServiceApprovalRequest
	users       map[string]entity.User // por email
	audit       []entity.AuditEntry
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		branches:    make(map[string]entity.Branch),
		assets:      make(map[string]entity.Asset),
		orders:      make(map[string]entity.TransferOrder),
		assignments: make(map[string]entity.ServiceAssignment),
		approvals:   make(map[string]entity.ServiceApprovalRequest),
		users:       make(map[string]entity.User),
	}
}

// snapshot captura el estado completo para poder restaurarlo ante un rollback.
type snapshot struct {
	branches    map[string]entity.Branch
	assets      map[string]entity.Asset
	orders      map[string]entity.TransferOrder
	assignments map[string]entity.ServiceAssignment
	approvals   map[string]entity.ServiceApprovalRequest
	users       map[string]entity.User
	audit       []entity.AuditEntry
}

func (s *Store) take() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		branches:    make(map[string]entity.Branch, len(s.branches)),
		assets:      make(map[string]entity.Asset, len(s.assets)),
		orders:      make(map[string]entity.TransferOrder, len(s.orders)),
		assignments: make(map[string]entity.ServiceAssignment, len(s.assignments)),
		approvals:   make(map[string]entity.ServiceApprovalRequest, len(s.approvals)),
		users:       make(map[string]entity.User, len(s.users)),
		audit:       append([]entity.AuditEntry(nil), s.audit...),
	}
	for k, v := range s.branches {
		snap.branches[k] = v
	}
	for k, v := range s.assets {
		snap.assets[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = copyOrder(v)
	}
	for k, v := range s.assignments {
		snap.assignments[k] = v
	}
	for k, v := range s.approvals {
		snap.approvals[k] = v
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches = snap.branches
	s.assets = snap.assets
	s.orders = snap.orders
	s.assignments = snap.assignments
	s.approvals = snap.approvals
	s.users = snap.users
	s.audit = snap.audit
}

// copyOrder copia la orden incluyendo sus renglones.
func copyOrder(o entity.TransferOrder) entity.TransferOrder {
	o.Items = append([]entity.TransferItem(nil), o.Items...)
	return o
}
