package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una tarea delegada (valores persistidos).
// realizado y expirado son terminales.
const (
	TaskPendente  = "pendente"
	TaskRealizado = "realizado"
	TaskExpirado  = "expirado"
)

// DelegatedTask asigna a un auditor observar el precio de un producto en un
// mercado antes de un plazo.
type DelegatedTask struct {
	ID             string
	ProductID      string
	MarketID       string
	City           string
	State          string
	AuditorID      string
	Deadline       time.Time
	Status         string // pendente, realizado, expirado
	CompletionDate *time.Time
	CollectedPrice *decimal.Decimal
	Notes          string
	CompanyID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
