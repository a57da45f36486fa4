package entity

import "time"

// Roles válidos para User.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// Estados de la cuenta. Una cuenta pending no puede iniciar sesión.
const (
	StatusActive  = "active"
	StatusPending = "pending"
)

// User representa un usuario del sistema.
type User struct {
	ID           int64
	Username     string // único e inmutable después de crearse
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // owner, staff
	Status       string // active, pending
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive informa si la cuenta puede autenticarse.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
