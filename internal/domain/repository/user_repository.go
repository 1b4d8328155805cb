package repository

import "github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para perfiles (DIP).
// Los métodos devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.User, error)
	Delete(id string) error
}
