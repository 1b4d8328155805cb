package entity

import "time"

// Identity representa una cuenta del proveedor de identidad: credenciales y
// metadata de registro. El perfil de aplicación (User) se aprovisiona aparte,
// con el mismo ID, en el primer sign-in.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano después de persistir
	Name         string // metadata de registro
	Role         string // metadata de registro; puede diferir del perfil final
	CompanyID    string // metadata de registro
	Confirmed    bool   // false hasta confirmar por el canal externo
	ConfirmToken string // token de un solo uso enviado fuera de banda
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
