package entity

import "time"

// Roles válidos para User. Los valores siguen los datos del despliegue
// brasileño: el rol colaborador se persiste como "alimentador".
const (
	RoleAdmin       = "admin"
	RoleAuditor     = "auditor"
	RoleAlimentador = "alimentador"
	RolePublic      = "public"
)

// ValidRole indica si el rol es uno de los asignables a un perfil.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAuditor, RoleAlimentador:
		return true
	}
	return false
}

// User representa el perfil de aplicación de una identidad (pertenece a una Company).
// Las credenciales viven en Identity; aquí solo datos de perfil y rol.
// El rol es inmutable durante la sesión y determina rutas y vista de inicio.
type User struct {
	ID        string // igual al ID de la Identity que lo originó
	CompanyID string
	Email     string
	Name      string
	Role      string // admin, auditor, alimentador
	CreatedAt time.Time
	UpdatedAt time.Time
}
