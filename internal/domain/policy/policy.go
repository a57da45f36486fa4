// Package policy decide qué puede hacer cada rol sobre cada recurso.
// Es la única fuente de verdad de la matriz de permisos; no depende de infraestructura.
package policy

import "github.com/jhoicas/Contabilidad-api/internal/domain/entity"

// Resource tipo de recurso protegido.
type Resource string

const (
	Transactions  Resource = "transactions"
	PriceList     Resource = "price_list"
	Users         Resource = "users"
	Approvals     Resource = "approvals"
	Notifications Resource = "notifications"
)

// Action operación sobre un recurso.
type Action string

const (
	Read    Action = "read"
	Create  Action = "create"
	Update  Action = "update"
	Delete  Action = "delete"
	Sale    Action = "sale"
	Restock Action = "restock"
	Approve Action = "approve"
	Reject  Action = "reject"
)

// Scope visibilidad de filas concedida: solo las propias o todas.
type Scope string

const (
	ScopeNone Scope = ""
	ScopeOwn  Scope = "own"
	ScopeAll  Scope = "all"
)

// Subject identidad autenticada que solicita el acceso.
type Subject struct {
	UserID int64
	Role   string
}

// Decision resultado de evaluar un permiso.
type Decision struct {
	Allowed bool
	Scope   Scope
	Reason  string
}

// OwnerFilter devuelve el predicado de propiedad a aplicar en la consulta:
// el id del sujeto si el alcance es "own", nil si es "all".
func (d Decision) OwnerFilter(s Subject) *int64 {
	if d.Scope == ScopeOwn {
		id := s.UserID
		return &id
	}
	return nil
}

type grants map[Resource]map[Action]Scope

var matrix = map[string]grants{
	entity.RoleOwner: {
		Transactions:  {Read: ScopeAll, Create: ScopeOwn, Update: ScopeAll, Delete: ScopeAll},
		PriceList:     {Read: ScopeAll, Create: ScopeAll, Update: ScopeAll, Delete: ScopeAll, Sale: ScopeAll, Restock: ScopeAll},
		Users:         {Read: ScopeAll, Update: ScopeAll, Delete: ScopeAll},
		Approvals:     {Read: ScopeAll, Approve: ScopeAll, Reject: ScopeAll},
		Notifications: {Read: ScopeOwn, Update: ScopeOwn, Delete: ScopeOwn},
	},
	entity.RoleStaff: {
		Transactions:  {Read: ScopeOwn, Create: ScopeOwn, Delete: ScopeOwn},
		PriceList:     {Read: ScopeAll},
		Notifications: {Read: ScopeOwn, Update: ScopeOwn, Delete: ScopeOwn},
	},
}

// Evaluate decide si el sujeto puede ejecutar action sobre resource y con qué alcance.
func Evaluate(s Subject, res Resource, act Action) Decision {
	g, ok := matrix[s.Role]
	if !ok {
		return Decision{Reason: "rol desconocido"}
	}
	scope, ok := g[res][act]
	if !ok || scope == ScopeNone {
		return Decision{Reason: "el rol " + s.Role + " no puede " + string(act) + " en " + string(res)}
	}
	return Decision{Allowed: true, Scope: scope}
}

// CanManageUser decide si el sujeto puede modificar o eliminar a un usuario con targetRole.
// Solo un owner actúa sobre cuentas staff; nunca sobre otro owner.
func CanManageUser(s Subject, targetRole string) Decision {
	if s.Role != entity.RoleOwner {
		return Decision{Reason: "solo un owner gestiona usuarios"}
	}
	if targetRole != entity.RoleStaff {
		return Decision{Reason: "solo se pueden gestionar cuentas staff"}
	}
	return Decision{Allowed: true, Scope: ScopeAll}
}
