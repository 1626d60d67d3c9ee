package entity

import "time"

// Roles válidos para UserProfile.
const (
	RoleAdmin     = "admin"
	RoleAprobador = "aprobador"
	RoleVendedor  = "vendedor"
)

// Permisos derivados del rol.
const (
	PermCrearCotizacion = "cotizacion:crear"
	PermAprobar         = "cotizacion:aprobar"
	PermAdmin           = "admin"
)

// rolePermissions mapea cada rol a su conjunto de permisos. Un rol desconocido
// no otorga nada: el sistema falla cerrado.
var rolePermissions = map[string][]string{
	RoleAdmin:     {PermCrearCotizacion, PermAprobar, PermAdmin},
	RoleAprobador: {PermCrearCotizacion, PermAprobar},
	RoleVendedor:  {PermCrearCotizacion},
}

// PermissionsForRole devuelve los permisos del rol (copia defensiva).
func PermissionsForRole(role string) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// UserProfile representa un usuario del sistema con su rol y permisos.
type UserProfile struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, aprobador, vendedor
	Status       string // active, inactive, suspended
	LastLogin    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPermission reporta si el perfil tiene el permiso dado.
func (u *UserProfile) HasPermission(perm string) bool {
	for _, p := range rolePermissions[u.Role] {
		if p == perm {
			return true
		}
	}
	return false
}
