package repository

import "github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"

// IdentityRepository define el puerto de persistencia para cuentas del
// proveedor de identidad (credenciales y metadata de registro).
type IdentityRepository interface {
	Create(identity *entity.Identity) error
	GetByID(id string) (*entity.Identity, error)
	GetByEmail(email string) (*entity.Identity, error)
	GetByConfirmToken(token string) (*entity.Identity, error)
	Update(identity *entity.Identity) error
}
