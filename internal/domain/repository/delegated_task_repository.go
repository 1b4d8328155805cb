package repository

import "github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"

// DelegatedTaskRepository define el puerto de persistencia para tareas
// delegadas de colecta.
type DelegatedTaskRepository interface {
	Create(task *entity.DelegatedTask) error
	GetByID(id string) (*entity.DelegatedTask, error)
	Update(task *entity.DelegatedTask) error
	ListByCompany(companyID string) ([]*entity.DelegatedTask, error)
	ListByAuditor(auditorID string) ([]*entity.DelegatedTask, error)
}
