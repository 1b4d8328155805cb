package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

var _ repository.DelegatedTaskRepository = (*DelegatedTaskRepo)(nil)

// DelegatedTaskRepo implementación del puerto DelegatedTaskRepository sobre
// PostgreSQL (usable con pool o tx). El status persistido puede decir
// pendente con deadline vencido: el estado efectivo se calcula en lectura,
// en el dominio, nunca aquí.
type DelegatedTaskRepo struct {
	q Querier
}

// NewDelegatedTaskRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDelegatedTaskRepository(q Querier) *DelegatedTaskRepo {
	return &DelegatedTaskRepo{q: q}
}

// Create persiste una nueva tarea delegada.
func (r *DelegatedTaskRepo) Create(task *entity.DelegatedTask) error {
	query := `
		INSERT INTO delegated_tasks (id, product_id, market_id, city, state, auditor_id, deadline, status, completion_date, collected_price, notes, company_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		task.ID, task.ProductID, task.MarketID, task.City, task.State,
		task.AuditorID, task.Deadline, task.Status, task.CompletionDate,
		task.CollectedPrice, task.Notes, task.CompanyID, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delegated task: %w", err)
	}
	return nil
}

const taskColumns = `
	id, product_id, market_id, COALESCE(city, ''), COALESCE(state, ''), auditor_id,
	deadline, status, completion_date, collected_price, COALESCE(notes, ''), company_id,
	created_at, updated_at`

// GetByID obtiene una tarea por ID.
func (r *DelegatedTaskRepo) GetByID(id string) (*entity.DelegatedTask, error) {
	query := `SELECT` + taskColumns + ` FROM delegated_tasks WHERE id = $1`
	var t entity.DelegatedTask
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.ProductID, &t.MarketID, &t.City, &t.State, &t.AuditorID,
		&t.Deadline, &t.Status, &t.CompletionDate, &t.CollectedPrice, &t.Notes,
		&t.CompanyID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delegated task: %w", err)
	}
	return &t, nil
}

// Update actualiza una tarea (cierre con precio colectado).
func (r *DelegatedTaskRepo) Update(task *entity.DelegatedTask) error {
	query := `
		UPDATE delegated_tasks SET status = $2, completion_date = $3, collected_price = $4, notes = NULLIF($5, ''), updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		task.ID, task.Status, task.CompletionDate, task.CollectedPrice, task.Notes, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update delegated task: %w", err)
	}
	return nil
}

// ListByCompany lista las tareas de una empresa, más recientes primero.
func (r *DelegatedTaskRepo) ListByCompany(companyID string) ([]*entity.DelegatedTask, error) {
	query := `SELECT` + taskColumns + `
		FROM delegated_tasks WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list delegated tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

// ListByAuditor lista las tareas asignadas a un auditor, más recientes primero.
func (r *DelegatedTaskRepo) ListByAuditor(auditorID string) ([]*entity.DelegatedTask, error) {
	query := `SELECT` + taskColumns + `
		FROM delegated_tasks WHERE auditor_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, auditorID)
	if err != nil {
		return nil, fmt.Errorf("list delegated tasks by auditor: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]*entity.DelegatedTask, error) {
	var list []*entity.DelegatedTask
	for rows.Next() {
		var t entity.DelegatedTask
		if err := rows.Scan(
			&t.ID, &t.ProductID, &t.MarketID, &t.City, &t.State, &t.AuditorID,
			&t.Deadline, &t.Status, &t.CompletionDate, &t.CollectedPrice, &t.Notes,
			&t.CompanyID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan delegated task: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
