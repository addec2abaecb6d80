// Package authz define la política de autorización: qué capacidades tiene cada rol.
// Los handlers declaran la capacidad que requieren; nunca comparan roles directamente.
package authz

import "github.com/jhoicas/suministros-api/internal/domain/entity"

// Capability permiso atómico sobre un recurso.
type Capability string

const (
	SuppliesRead           Capability = "supplies:read"
	SuppliesWrite          Capability = "supplies:write"
	RequestsCreate         Capability = "requests:create"
	RequestsRead           Capability = "requests:read"
	RequestsReadAll        Capability = "requests:read_all"
	RequestsDecide         Capability = "requests:decide"
	UsersManage            Capability = "users:manage"
	SettingsManage         Capability = "settings:manage"
	AuditRead              Capability = "audit:read"
	DashboardRead          Capability = "dashboard:read"
	ReportsRead            Capability = "reports:read"
	NotificationsSubscribe Capability = "notifications:subscribe"
)

// All lista todas las capacidades conocidas.
var All = []Capability{
	SuppliesRead, SuppliesWrite,
	RequestsCreate, RequestsRead, RequestsReadAll, RequestsDecide,
	UsersManage, SettingsManage, AuditRead, DashboardRead, ReportsRead,
	NotificationsSubscribe,
}

// Policy mapa rol -> conjunto de capacidades.
type Policy map[string]map[Capability]struct{}

// NewPolicy construye una política a partir de listas de capacidades por rol.
func NewPolicy(grants map[string][]Capability) Policy {
	p := make(Policy, len(grants))
	for role, caps := range grants {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		p[role] = set
	}
	return p
}

// Default política de la aplicación: ADMIN todo; STAFF consulta inventario y gestiona sus solicitudes.
func Default() Policy {
	return NewPolicy(map[string][]Capability{
		entity.RoleAdmin: All,
		entity.RoleStaff: {
			SuppliesRead,
			RequestsCreate,
			RequestsRead,
			NotificationsSubscribe,
		},
	})
}

// Allows indica si el rol tiene la capacidad. Roles desconocidos no tienen ninguna.
func (p Policy) Allows(role string, c Capability) bool {
	caps, ok := p[role]
	if !ok {
		return false
	}
	_, ok = caps[c]
	return ok
}
