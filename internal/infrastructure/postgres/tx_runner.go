package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/prices"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/tasks"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

// Ensure TxRunner implements tasks.TxRunner and prices.TxRunner.
var _ tasks.TxRunner = (*TxRunner)(nil)
var _ prices.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunTaskCompletion inicia una transacción con repos de tareas y precios:
// el cierre de la tarea y el alta de la observación van juntos o no van.
func (r *TxRunner) RunTaskCompletion(ctx context.Context, fn func(
	taskRepo repository.DelegatedTaskRepository,
	priceRepo repository.PriceRecordRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	taskRepo := NewDelegatedTaskRepository(tx)
	priceRepo := NewPriceRecordRepository(tx)

	if err := fn(taskRepo, priceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPriceSubmission inicia una transacción con repos de productos y precios:
// la entrada manual crea producto nuevo y observación en el mismo commit.
func (r *TxRunner) RunPriceSubmission(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	priceRepo repository.PriceRecordRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	priceRepo := NewPriceRecordRepository(tx)

	if err := fn(productRepo, priceRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
