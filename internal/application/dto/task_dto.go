package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTaskRequest entrada para delegar una tarea de colecta a un auditor.
type CreateTaskRequest struct {
	ProductID string    `json:"product_id"`
	MarketID  string    `json:"market_id"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	AuditorID string    `json:"auditor_id"`
	Deadline  time.Time `json:"deadline"`
	Notes     string    `json:"notes"`
}

// CompleteTaskRequest entrada para cumplir una tarea. Price es obligatorio;
// sin precio no hay transición.
type CompleteTaskRequest struct {
	Price *decimal.Decimal `json:"price"`
	Notes string           `json:"notes"`
}

// TaskResponse salida de una tarea. Status es el estado EFECTIVO (el
// vencimiento se calcula en lectura, ver internal/domain/task).
type TaskResponse struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"product_id"`
	MarketID       string           `json:"market_id"`
	City           string           `json:"city"`
	State          string           `json:"state"`
	AuditorID      string           `json:"auditor_id"`
	Deadline       time.Time        `json:"deadline"`
	Status         string           `json:"status"`
	CompletionDate *time.Time       `json:"completion_date,omitempty"`
	CollectedPrice *decimal.Decimal `json:"collected_price,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CompanyID      string           `json:"company_id"`
	CreatedAt      time.Time        `json:"created_at"`
}

// TaskListResponse tareas particionadas por estado efectivo.
type TaskListResponse struct {
	Pendentes  []TaskResponse `json:"pendentes"`
	Realizadas []TaskResponse `json:"realizadas"`
	Expiradas  []TaskResponse `json:"expiradas"`
}
