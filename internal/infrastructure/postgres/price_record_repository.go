package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
)

var _ repository.PriceRecordRepository = (*PriceRecordRepo)(nil)

// PriceRecordRepo implementación del puerto PriceRecordRepository sobre
// PostgreSQL (usable con pool o tx). Solo insert y lecturas: las
// observaciones son append-only, nunca se actualizan ni borran.
type PriceRecordRepo struct {
	q Querier
}

// NewPriceRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceRecordRepository(q Querier) *PriceRecordRepo {
	return &PriceRecordRepo{q: q}
}

// Create persiste una observación de precio.
func (r *PriceRecordRepo) Create(record *entity.PriceRecord) error {
	query := `
		INSERT INTO price_records (id, product_id, market_id, market_name, price, collected_at, user_id, company_id, origin, notes, created_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, ''), $5, $6, $7, $8, $9, NULLIF($10, ''), $11)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.ProductID, record.MarketID, record.MarketName,
		record.Price, record.CollectedAt, record.UserID, record.CompanyID,
		record.Origin, record.Notes, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert price record: %w", err)
	}
	return nil
}

const priceRecordColumns = `
	id, product_id, COALESCE(market_id::text, ''), COALESCE(market_name, ''), price,
	collected_at, user_id, company_id, origin, COALESCE(notes, ''), created_at`

// ListAll lista todas las observaciones ordenadas por fecha de colecta.
func (r *PriceRecordRepo) ListAll() ([]*entity.PriceRecord, error) {
	query := `SELECT` + priceRecordColumns + `
		FROM price_records ORDER BY collected_at`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list price records: %w", err)
	}
	defer rows.Close()
	return scanPriceRecords(rows)
}

// ListByCompany lista las observaciones de una empresa.
func (r *PriceRecordRepo) ListByCompany(companyID string) ([]*entity.PriceRecord, error) {
	query := `SELECT` + priceRecordColumns + `
		FROM price_records WHERE company_id = $1 ORDER BY collected_at`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list price records by company: %w", err)
	}
	defer rows.Close()
	return scanPriceRecords(rows)
}

// ListByUser lista las últimas observaciones de un usuario, más recientes primero.
func (r *PriceRecordRepo) ListByUser(userID string, limit int) ([]*entity.PriceRecord, error) {
	query := `SELECT` + priceRecordColumns + `
		FROM price_records WHERE user_id = $1 ORDER BY collected_at DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list price records by user: %w", err)
	}
	defer rows.Close()
	return scanPriceRecords(rows)
}

func scanPriceRecords(rows pgx.Rows) ([]*entity.PriceRecord, error) {
	var list []*entity.PriceRecord
	for rows.Next() {
		var rec entity.PriceRecord
		if err := rows.Scan(
			&rec.ID, &rec.ProductID, &rec.MarketID, &rec.MarketName, &rec.Price,
			&rec.CollectedAt, &rec.UserID, &rec.CompanyID, &rec.Origin, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan price record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
