// Package tasks contiene los casos de uso de tareas delegadas de colecta:
// delegación por el admin, listados particionados por estado efectivo y
// cumplimiento por el auditor asignado.
package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/task"
)

// TxRunner ejecuta el cierre de tarea y el alta del precio observado dentro
// de una misma transacción.
type TxRunner interface {
	RunTaskCompletion(ctx context.Context, fn func(
		taskRepo repository.DelegatedTaskRepository,
		priceRepo repository.PriceRecordRepository,
	) error) error
}

// Publisher notifica inserciones de precios a los suscriptores en vivo.
type Publisher interface {
	PublishPrice(companyID string, record *entity.PriceRecord)
}

// TaskUseCase casos de uso de tareas delegadas.
type TaskUseCase struct {
	tasks    repository.DelegatedTaskRepository
	products repository.ProductRepository
	markets  repository.MarketRepository
	users    repository.UserRepository
	tx       TxRunner
	bus      Publisher
	now      func() time.Time
}

// NewTaskUseCase construye el caso de uso. now es inyectable para tests.
func NewTaskUseCase(tasks repository.DelegatedTaskRepository, products repository.ProductRepository, markets repository.MarketRepository, users repository.UserRepository, tx TxRunner, bus Publisher) *TaskUseCase {
	return &TaskUseCase{
		tasks:    tasks,
		products: products,
		markets:  markets,
		users:    users,
		tx:       tx,
		bus:      bus,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *TaskUseCase) WithClock(now func() time.Time) *TaskUseCase {
	uc.now = now
	return uc
}

// Create delega una tarea de colecta a un auditor. Valida que producto,
// mercado y auditor existan y que el auditor tenga rol auditor.
func (uc *TaskUseCase) Create(companyID string, in dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if in.ProductID == "" || in.MarketID == "" || in.AuditorID == "" || in.Deadline.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	market, err := uc.markets.GetByID(in.MarketID)
	if err != nil {
		return nil, err
	}
	if market == nil {
		return nil, domain.ErrNotFound
	}
	auditor, err := uc.users.GetByID(in.AuditorID)
	if err != nil {
		return nil, err
	}
	if auditor == nil {
		return nil, domain.ErrUserNotFound
	}
	if auditor.Role != entity.RoleAuditor {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	t := &entity.DelegatedTask{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		MarketID:  in.MarketID,
		City:      firstNonEmpty(in.City, market.City),
		State:     firstNonEmpty(in.State, market.State),
		AuditorID: in.AuditorID,
		Deadline:  in.Deadline,
		Status:    entity.TaskPendente,
		Notes:     in.Notes,
		CompanyID: companyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.tasks.Create(t); err != nil {
		return nil, err
	}
	return toTaskResponse(t, now), nil
}

// ListByCompany devuelve las tareas de la empresa particionadas por estado
// efectivo: una tarea pendente con deadline vencido aparece en expiradas
// aunque la fila todavía diga pendente.
func (uc *TaskUseCase) ListByCompany(companyID string) (*dto.TaskListResponse, error) {
	list, err := uc.tasks.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	return uc.partition(list), nil
}

// ListByAuditor devuelve las tareas del auditor particionadas por estado efectivo.
func (uc *TaskUseCase) ListByAuditor(auditorID string) (*dto.TaskListResponse, error) {
	list, err := uc.tasks.ListByAuditor(auditorID)
	if err != nil {
		return nil, err
	}
	return uc.partition(list), nil
}

func (uc *TaskUseCase) partition(list []*entity.DelegatedTask) *dto.TaskListResponse {
	now := uc.now()
	p := task.PartitionByStatus(list, now)
	out := &dto.TaskListResponse{
		Pendentes:  make([]dto.TaskResponse, 0, len(p.Pendentes)),
		Realizadas: make([]dto.TaskResponse, 0, len(p.Realizadas)),
		Expiradas:  make([]dto.TaskResponse, 0, len(p.Expiradas)),
	}
	for _, t := range p.Pendentes {
		out.Pendentes = append(out.Pendentes, *toTaskResponse(t, now))
	}
	for _, t := range p.Realizadas {
		out.Realizadas = append(out.Realizadas, *toTaskResponse(t, now))
	}
	for _, t := range p.Expiradas {
		out.Expiradas = append(out.Expiradas, *toTaskResponse(t, now))
	}
	return out
}

// Complete cumple una tarea: solo el auditor asignado, con precio positivo y
// antes del deadline. En la misma transacción se actualiza la tarea y se
// inserta la observación de precio con origen auditor; después se publica el
// precio a los suscriptores en vivo.
func (uc *TaskUseCase) Complete(auditorID, taskID string, in dto.CompleteTaskRequest) (*dto.TaskResponse, error) {
	t, err := uc.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.AuditorID != auditorID {
		return nil, domain.ErrForbidden
	}
	if in.Price == nil {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	if err := task.Complete(t, *in.Price, in.Notes, now); err != nil {
		return nil, err
	}

	record := &entity.PriceRecord{
		ID:          uuid.New().String(),
		ProductID:   t.ProductID,
		MarketID:    t.MarketID,
		Price:       *in.Price,
		CollectedAt: now,
		UserID:      auditorID,
		CompanyID:   t.CompanyID,
		Origin:      entity.OriginAuditor,
		Notes:       in.Notes,
		CreatedAt:   now,
	}
	err = uc.tx.RunTaskCompletion(context.Background(), func(
		taskRepo repository.DelegatedTaskRepository,
		priceRepo repository.PriceRecordRepository,
	) error {
		if err := taskRepo.Update(t); err != nil {
			return err
		}
		return priceRepo.Create(record)
	})
	if err != nil {
		return nil, err
	}
	if uc.bus != nil {
		uc.bus.PublishPrice(t.CompanyID, record)
	}
	return toTaskResponse(t, now), nil
}

func toTaskResponse(t *entity.DelegatedTask, now time.Time) *dto.TaskResponse {
	return &dto.TaskResponse{
		ID:             t.ID,
		ProductID:      t.ProductID,
		MarketID:       t.MarketID,
		City:           t.City,
		State:          t.State,
		AuditorID:      t.AuditorID,
		Deadline:       t.Deadline,
		Status:         task.EffectiveStatus(t, now),
		CompletionDate: t.CompletionDate,
		CollectedPrice: t.CollectedPrice,
		Notes:          t.Notes,
		CompanyID:      t.CompanyID,
		CreatedAt:      t.CreatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
