// Package task contiene las reglas puras del ciclo de vida de las tareas
// delegadas: pendente -> realizado / expirado.
//
// Regla canónica de vencimiento: el vencimiento SIEMPRE se calcula en lectura
// a partir del deadline. Un status almacenado "pendente" con deadline vencido
// se trata como expirado; nunca se confía en el campo persistido para decidir
// que una tarea sigue vigente. Los estados realizado y expirado son terminales.
package task

import (
	"time"

	"github.com/jhoicas/PrecoMonitor-api/internal/domain"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// IsTerminal indica si el status almacenado ya no admite transiciones.
func IsTerminal(status string) bool {
	return status == entity.TaskRealizado || status == entity.TaskExpirado
}

// EffectiveStatus devuelve el estado observable de la tarea en el instante now.
// Si el status almacenado es terminal manda el almacenado; si no, una tarea
// con deadline vencido es expirado aunque la fila todavía diga pendente.
func EffectiveStatus(t *entity.DelegatedTask, now time.Time) string {
	if IsTerminal(t.Status) {
		return t.Status
	}
	if t.Deadline.Before(now) {
		return entity.TaskExpirado
	}
	return entity.TaskPendente
}

// Partition agrupa tareas por estado efectivo. El orden de entrada se preserva
// dentro de cada grupo.
type Partition struct {
	Pendentes  []*entity.DelegatedTask
	Realizadas []*entity.DelegatedTask
	Expiradas  []*entity.DelegatedTask
}

// PartitionByStatus separa las tareas según EffectiveStatus en now.
func PartitionByStatus(tasks []*entity.DelegatedTask, now time.Time) Partition {
	var p Partition
	for _, t := range tasks {
		switch EffectiveStatus(t, now) {
		case entity.TaskRealizado:
			p.Realizadas = append(p.Realizadas, t)
		case entity.TaskExpirado:
			p.Expiradas = append(p.Expiradas, t)
		default:
			p.Pendentes = append(p.Pendentes, t)
		}
	}
	return p
}

// Complete aplica la transición pendente -> realizado sobre t.
//
// Requiere un precio positivo; sin precio válido no hay transición
// (ErrInvalidInput). Una tarea efectivamente vencida no se puede cumplir
// (ErrTaskExpired) y una terminal tampoco (ErrTaskClosed). En éxito estampa
// CompletionDate = now y guarda precio y notas.
func Complete(t *entity.DelegatedTask, price decimal.Decimal, notes string, now time.Time) error {
	if !price.IsPositive() {
		return domain.ErrInvalidInput
	}
	switch EffectiveStatus(t, now) {
	case entity.TaskRealizado:
		return domain.ErrTaskClosed
	case entity.TaskExpirado:
		if IsTerminal(t.Status) {
			return domain.ErrTaskClosed
		}
		return domain.ErrTaskExpired
	}
	t.Status = entity.TaskRealizado
	t.CompletionDate = &now
	t.CollectedPrice = &price
	if notes != "" {
		t.Notes = notes
	}
	t.UpdatedAt = now
	return nil
}
